package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/importdash/internal/models"
	"github.com/desertthunder/importdash/internal/shared"
	th "github.com/desertthunder/importdash/internal/testing"
)

func testEntries() []models.ImportLogEntry {
	return []models.ImportLogEntry{
		{
			ID:            "abc",
			FileName:      "jobs.csv",
			TotalImported: 10,
			NewJobs:       7,
			UpdatedJobs:   2,
			FailedJobs:    1,
			Timestamp:     time.Date(2024, 1, 1, 15, 4, 5, 0, time.UTC),
		},
		{
			ID:            "def",
			FileName:      "feed|b.xml",
			TotalImported: 3,
			NewJobs:       3,
			Timestamp:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testEntries())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		lines := strings.Split(strings.TrimSpace(output), "\n")

		if lines[0] != "ID,File Name,Total,New,Updated,Failed,Timestamp" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
		}
		if lines[1] != "abc,jobs.csv,10,7,2,1,2024-01-01T15:04:05Z" {
			t.Errorf("unexpected first row: %s", lines[1])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testEntries(), time.UTC)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Job Import History",
			"**Runs**: 2",
			"**Jobs**: 13 total, 10 new, 2 updated, 1 failed",
			"| jobs.csv | 10 | 7 | 2 | 1 | 1/1/2024, 3:04:05 PM |",
			`feed\|b.xml`,
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown Empty", func(t *testing.T) {
		data, err := ExportToMarkdown(nil, time.UTC)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if !strings.Contains(string(data), "No imports recorded") {
			t.Errorf("expected empty-state line, got:\n%s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testEntries(), time.UTC)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Imports: 2") {
			t.Errorf("Text missing count, got:\n%s", output)
		}
		if !strings.Contains(output, "1. jobs.csv - 10 total (7 new, 2 updated, 1 failed) at 1/1/2024, 3:04:05 PM") {
			t.Errorf("Text missing first entry, got:\n%s", output)
		}
	})

	t.Run("Export JSON", func(t *testing.T) {
		data, err := Export(testEntries(), JSON, time.UTC)
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 || decoded[0]["_id"] != "abc" || decoded[0]["fileName"] != "jobs.csv" {
			t.Errorf("unexpected JSON: %s", data)
		}

		empty, err := Export(nil, JSON, time.UTC)
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		if strings.TrimSpace(string(empty)) != "[]" {
			t.Errorf("expected empty array, got %s", empty)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"csv", CSV, false},
		{"CSV", CSV, false},
		{"md", Markdown, false},
		{"markdown", Markdown, false},
		{"text", Text, false},
		{"txt", Text, false},
		{" json ", JSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.name)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.name, got, err, tt.want)
			}
		})
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("Writes Each Format", func(t *testing.T) {
		dir := t.TempDir()

		for _, format := range Formats {
			path := filepath.Join(dir, "nested", "logs."+format.Extension())

			written, err := WriteExport(testEntries(), format, path, time.UTC)
			if err != nil {
				t.Fatalf("WriteExport(%s) failed: %v", format, err)
			}
			if written != path {
				t.Errorf("expected path %s, got %s", path, written)
			}

			th.AssertFileExists(t, path)
			if content := th.MustReadFile(t, path); !strings.Contains(content, "jobs.csv") {
				t.Errorf("%s export missing entry, got:\n%s", format, content)
			}
		}
	})

	t.Run("Default Path", func(t *testing.T) {
		t.Chdir(t.TempDir())

		written, err := WriteExport(testEntries(), Markdown, "", time.UTC)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != "import-logs.md" {
			t.Errorf("expected default path import-logs.md, got %s", written)
		}
		th.AssertFileExists(t, written)
	})

	t.Run("Unknown Format", func(t *testing.T) {
		_, err := WriteExport(testEntries(), Format("xml"), filepath.Join(t.TempDir(), "x"), time.UTC)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
