// Package report renders run summaries as aligned text tables for the CLI
// tools.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"storecrawl/internal/models"
)

// RunSummary aggregates one source's outcome for the final report.
type RunSummary struct {
	Brand      string
	Fetched    int
	Emitted    int
	Duplicates int
	Invalid    int
	Failures   int
	Duration   time.Duration
}

// RenderSummaries renders one row per source plus a totals row.
func RenderSummaries(summaries []RunSummary) string {
	rows := [][]string{
		{"Brand", "Fetched", "Emitted", "Duplicates", "Invalid", "Failures", "Duration"},
	}

	var total RunSummary

	for _, s := range summaries {
		rows = append(rows, []string{
			s.Brand,
			fmt.Sprintf("%d", s.Fetched),
			fmt.Sprintf("%d", s.Emitted),
			fmt.Sprintf("%d", s.Duplicates),
			fmt.Sprintf("%d", s.Invalid),
			fmt.Sprintf("%d", s.Failures),
			s.Duration.Round(time.Millisecond).String(),
		})

		total.Fetched += s.Fetched
		total.Emitted += s.Emitted
		total.Duplicates += s.Duplicates
		total.Invalid += s.Invalid
		total.Failures += s.Failures
		total.Duration += s.Duration
	}

	if len(summaries) > 1 {
		rows = append(rows, []string{
			"total",
			fmt.Sprintf("%d", total.Fetched),
			fmt.Sprintf("%d", total.Emitted),
			fmt.Sprintf("%d", total.Duplicates),
			fmt.Sprintf("%d", total.Invalid),
			fmt.Sprintf("%d", total.Failures),
			total.Duration.Round(time.Millisecond).String(),
		})
	}

	return renderTable(rows)
}

// RenderStores renders a preview of up to limit emitted records.
func RenderStores(stores []*models.Store, limit int) string {
	rows := [][]string{{"Number", "Name", "Address", "Phone"}}

	for i, store := range stores {
		if limit > 0 && i >= limit {
			break
		}

		rows = append(rows, []string{
			store.Number,
			truncate(store.Name, 24),
			truncate(store.Address, 44),
			store.PhoneNumber,
		})
	}

	return renderTable(rows)
}

// renderTable aligns rows on display width, so wide runes don't break the
// columns.
func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	widths := make([]int, len(rows[0]))

	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				continue
			}

			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder

	for rowIdx, row := range rows {
		for i, cell := range row {
			sb.WriteString("| ")
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)+1))
		}

		sb.WriteString("|\n")

		if rowIdx == 0 {
			for _, w := range widths {
				sb.WriteString("|")
				sb.WriteString(strings.Repeat("-", w+2))
			}

			sb.WriteString("|\n")
		}
	}

	return sb.String()
}

// truncate shortens a cell to max display width, appending an ellipsis.
func truncate(s string, max int) string {
	if runewidth.StringWidth(s) <= max {
		return s
	}

	return runewidth.Truncate(s, max, "...")
}
