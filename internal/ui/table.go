package ui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/importdash/internal/models"
	"github.com/desertthunder/importdash/internal/shared"
)

// LogColumns are the headers of the import history table.
var LogColumns = []string{"File Name", "Total", "New", "Updated", "Failed", "Timestamp"}

const (
	colNew     = 2
	colUpdated = 3
	colFailed  = 4
)

// inconsistentMark prefixes rows whose total differs from new+updated+failed.
const inconsistentMark = "* "

// LogRows converts entries to table cells in the order given.
func LogRows(entries []models.ImportLogEntry, loc *time.Location) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		name := e.FileName
		if !e.Consistent() {
			name = inconsistentMark + name
		}
		rows = append(rows, []string{
			name,
			strconv.Itoa(e.TotalImported),
			strconv.Itoa(e.NewJobs),
			strconv.Itoa(e.UpdatedJobs),
			strconv.Itoa(e.FailedJobs),
			shared.FormatTimestamp(e.Timestamp, loc),
		})
	}
	return rows
}

// RenderLogTable draws entries as a bordered table with color-coded count columns.
func RenderLogTable(entries []models.ImportLogEntry, loc *time.Location) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.border).
		Headers(LogColumns...).
		Rows(LogRows(entries, loc)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.header
			}

			switch col {
			case colNew:
				return styles.ok.Padding(0, 1)
			case colUpdated:
				return styles.info.Padding(0, 1)
			case colFailed:
				return styles.err.Padding(0, 1)
			default:
				return styles.cell
			}
		})

	out := t.Render()
	for _, e := range entries {
		if !e.Consistent() {
			out += "\n" + styles.warn.Render("* total differs from new + updated + failed")
			break
		}
	}
	return out
}

// RenderCounters draws the queue counter strip.
func RenderCounters(stats models.QueueStats) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.warn.Render("Waiting: "+strconv.Itoa(stats.Waiting)), "   ",
		styles.info.Render("Active: "+strconv.Itoa(stats.Active)), "   ",
		styles.ok.Render("Completed: "+strconv.Itoa(stats.Completed)), "   ",
		styles.err.Render("Failed: "+strconv.Itoa(stats.Failed)),
	)
}

// RenderTable draws a plain bordered table, used for CLI listings.
func RenderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.header
			}
			return styles.cell
		}).
		Render()
}
