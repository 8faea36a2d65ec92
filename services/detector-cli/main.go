package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/IrshadAnsari05010/phishing-detector/common/models"
	"github.com/IrshadAnsari05010/phishing-detector/internal/client"
	"github.com/IrshadAnsari05010/phishing-detector/internal/export"
	"github.com/IrshadAnsari05010/phishing-detector/internal/handler"
)

const (
	defaultAPIURL = "http://localhost:8081"
	minTextLength = 10
)

var (
	errTextTooShort = fmt.Errorf("text must be at least %d characters", minTextLength)
	errNoLines      = errors.New("batch file has no non-blank lines")
	errTooManyLines = fmt.Errorf("batch is limited to %d lines", handler.MaxBatchSize)
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("detector-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", envOr("DETECTOR_API_URL", defaultAPIURL), "detector API base URL")
	batchFile := fs.String("batch", "", "classify every non-blank line of `FILE`")
	csvOut := fs.String("csv", "", "write batch results as CSV to `FILE`")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, `  detector-cli [-api URL] "email text here"`)
		fmt.Fprintln(stderr, "  detector-cli [-api URL] -batch FILE [-csv OUT]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	api := client.New(*apiURL)

	var err error
	switch {
	case *batchFile != "":
		err = runBatch(ctx, api, *batchFile, *csvOut, stdout)
	case fs.NArg() > 0:
		err = runSingle(ctx, api, strings.Join(fs.Args(), " "), stdout)
	default:
		fs.Usage()
		return 1
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func runSingle(ctx context.Context, api *client.Client, text string, stdout io.Writer) error {
	if len([]rune(strings.TrimSpace(text))) < minTextLength {
		return errTextTooShort
	}

	resp, err := api.Predict(ctx, text)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func runBatch(ctx context.Context, api *client.Client, path, csvPath string, stdout io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	texts, err := readBatch(f)
	if err != nil {
		return err
	}

	items, err := api.PredictBatch(ctx, texts)
	if err != nil {
		return err
	}

	if err := printTable(stdout, items); err != nil {
		return err
	}

	if csvPath != "" {
		out, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		if err := export.WriteCSV(out, items); err != nil {
			_ = out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("close csv: %w", err)
		}
		fmt.Fprintf(stdout, "CSV written to %s\n", csvPath)
	}
	return nil
}

// readBatch returns the trimmed non-blank lines of r.
func readBatch(r io.Reader) ([]string, error) {
	var texts []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		texts = append(texts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	switch {
	case len(texts) == 0:
		return nil, errNoLines
	case len(texts) > handler.MaxBatchSize:
		return nil, errTooManyLines
	}
	return texts, nil
}

func printTable(w io.Writer, items []models.BatchResultItem) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPREDICTION\tCONFIDENCE\tPHISHING\tPREVIEW\tREASON")

	phishing := 0
	for i, item := range items {
		if item.Prediction == "phishing" {
			phishing++
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.4f\t%s\t%s\n",
			i+1, item.Prediction, item.Confidence, item.PhishingProbability, item.TextPreview, item.Reason)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	_, err := fmt.Fprintf(w, "\nTotal: %d  Phishing: %d  Safe: %d\n", len(items), phishing, len(items)-phishing)
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
