package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrshadAnsari05010/phishing-detector/common/models"
)

func TestCSV(t *testing.T) {
	items := []models.BatchResultItem{
		{
			TextPreview:         `Say "hi", then click here`,
			Prediction:          "phishing",
			Confidence:          "high",
			Reason:              "contains suspicious call-to-action",
			PhishingProbability: 0.73,
		},
		{
			TextPreview:         "Hello",
			Prediction:          "safe",
			Confidence:          "low",
			Reason:              "model uncertain, defaulting to safe",
			PhishingProbability: 0.45,
		},
	}

	want := "Preview,Prediction,Confidence,Phishing Probability,Reason\n" +
		`"Say ""hi"", then click here",phishing,high,0.7300,"contains suspicious call-to-action"` + "\n" +
		`"Hello",safe,low,0.4500,"model uncertain, defaulting to safe"`

	assert.Equal(t, want, CSV(items))
}

func TestCSV_HeaderOnly(t *testing.T) {
	assert.Equal(t, CSVHeader, CSV(nil))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []models.BatchResultItem{{TextPreview: "x", Prediction: "safe", Confidence: "low", PhishingProbability: 0.1}}))
	assert.Equal(t, CSVHeader+"\n"+`"x",safe,low,0.1000,""`, buf.String())
}
