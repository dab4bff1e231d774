// package formatter provides functions to export import history to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/importdash/internal/models"
	"github.com/desertthunder/importdash/internal/shared"
)

// Format names an export format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "txt"
	JSON     Format = "json"
)

// Formats lists the supported export formats.
var Formats = []Format{CSV, Markdown, Text, JSON}

// ParseFormat resolves a user-supplied format name, accepting "md" and "text" as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "txt", "text":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want csv, markdown, txt or json)", shared.ErrInvalidArgument, name)
	}
}

// Extension returns the file extension used for the format, without the dot.
func (f Format) Extension() string {
	if f == Markdown {
		return "md"
	}
	return string(f)
}

// ExportToCSV converts entries to CSV with columns: ID, File Name, Total, New, Updated, Failed, Timestamp.
//
// Timestamps are written as RFC 3339 in UTC so the file sorts and parses cleanly.
func ExportToCSV(entries []models.ImportLogEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "File Name", "Total", "New", "Updated", "Failed", "Timestamp"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range entries {
		record := []string{
			e.ID,
			e.FileName,
			strconv.Itoa(e.TotalImported),
			strconv.Itoa(e.NewJobs),
			strconv.Itoa(e.UpdatedJobs),
			strconv.Itoa(e.FailedJobs),
			e.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts entries to a Markdown document with a summary and a table.
func ExportToMarkdown(entries []models.ImportLogEntry, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Job Import History\n\n")
	buf.WriteString(fmt.Sprintf("**Runs**: %d\n", len(entries)))

	var total, created, updated, failed int
	for _, e := range entries {
		total += e.TotalImported
		created += e.NewJobs
		updated += e.UpdatedJobs
		failed += e.FailedJobs
	}
	buf.WriteString(fmt.Sprintf("**Jobs**: %d total, %d new, %d updated, %d failed\n\n", total, created, updated, failed))

	if len(entries) == 0 {
		buf.WriteString("_No imports recorded._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| File Name | Total | New | Updated | Failed | Timestamp |\n")
	buf.WriteString("|---|---:|---:|---:|---:|---|\n")
	for _, e := range entries {
		buf.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d | %s |\n",
			escapeMarkdown(e.FileName), e.TotalImported, e.NewJobs, e.UpdatedJobs, e.FailedJobs,
			shared.FormatTimestamp(e.Timestamp, loc)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts entries to plain text format
func ExportToText(entries []models.ImportLogEntry, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Imports: %d\n\n", len(entries)))

	for i, e := range entries {
		buf.WriteString(fmt.Sprintf("%d. %s - %d total (%d new, %d updated, %d failed) at %s\n",
			i+1, e.FileName, e.TotalImported, e.NewJobs, e.UpdatedJobs, e.FailedJobs,
			shared.FormatTimestamp(e.Timestamp, loc)))
	}

	return buf.Bytes(), nil
}

// Export renders entries in the given format.
func Export(entries []models.ImportLogEntry, format Format, loc *time.Location) ([]byte, error) {
	switch format {
	case CSV:
		return ExportToCSV(entries)
	case Markdown:
		return ExportToMarkdown(entries, loc)
	case Text:
		return ExportToText(entries, loc)
	case JSON:
		if entries == nil {
			entries = []models.ImportLogEntry{}
		}
		return shared.MarshalJSON(entries, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport writes entries to path in the given format.
//
// Defaults to import-logs.{ext} in the working directory; parent directories are created as needed.
func WriteExport(entries []models.ImportLogEntry, format Format, path string, loc *time.Location) (string, error) {
	if path == "" {
		path = "import-logs." + format.Extension()
	}

	data, err := Export(entries, format, loc)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
