package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/IrshadAnsari05010/phishing-detector/common/models"
)

// CSVHeader is the first line of a batch export.
const CSVHeader = "Preview,Prediction,Confidence,Phishing Probability,Reason"

// CSV renders batch results. Preview and reason are always quoted, the
// probability carries four decimals and rows are joined by a bare newline.
func CSV(items []models.BatchResultItem) string {
	rows := make([]string, 0, len(items)+1)
	rows = append(rows, CSVHeader)
	for _, item := range items {
		rows = append(rows, fmt.Sprintf("%s,%s,%s,%.4f,%s",
			quote(item.TextPreview),
			item.Prediction,
			item.Confidence,
			item.PhishingProbability,
			quote(item.Reason),
		))
	}
	return strings.Join(rows, "\n")
}

// WriteCSV writes the export of items to w.
func WriteCSV(w io.Writer, items []models.BatchResultItem) error {
	if _, err := io.WriteString(w, CSV(items)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
