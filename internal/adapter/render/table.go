// Package render formats pipeline output for terminal display.
package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/conflictwatch/casemap/internal/domain"
)

var tableHeaders = []string{
	"id", "name", "country", "region", "status",
	"targeted_group", "perpetrators", "start_date", "last_verified", "est_deaths",
}

// Table renders display rows as a markdown-style fixed-width table,
// padding by display width so wide runes stay aligned.
func Table(rows []domain.TableRow) string {
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, tableHeaders)
	for _, r := range rows {
		cells = append(cells, []string{
			r.ID, r.Name, r.Country, r.Region, r.Status,
			r.TargetedGroup, r.Perpetrators, r.StartDate, r.LastVerified, r.EstDeaths,
		})
	}

	widths := make([]int, len(tableHeaders))
	for _, row := range cells {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for rowIdx, row := range cells {
		writeRow(&b, row, widths)
		if rowIdx == 0 {
			writeSeparator(&b, widths)
		}
	}
	return b.String()
}

func writeRow(b *strings.Builder, row []string, widths []int) {
	b.WriteString("|")
	for i, cell := range row {
		b.WriteString(" ")
		b.WriteString(cell)
		if pad := widths[i] - runewidth.StringWidth(cell); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func writeSeparator(b *strings.Builder, widths []int) {
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(" ")
		b.WriteString(strings.Repeat("-", w))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}
