package report

import (
	"fmt"
	"strings"

	"github.com/taxfolk/selfassess/internal/models"
)

const breakdownFieldWidth = 40

// FormatBreakdown renders the ledger rows behind an aggregate as a
// pipe-separated listing, one row per line, ordered as given. Empty
// input renders as an empty string so callers can skip empty sections.
func FormatBreakdown(rows []models.Transaction) string {
	if len(rows) == 0 {
		return ""
	}
	lines := []string{"Date | Account | Description | Note | Nett (£) | Category"}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s | %s | %s | %s | %10s | %s",
			r.Date,
			r.Account,
			truncate(r.Description, breakdownFieldWidth),
			r.Note,
			r.Nett.StringFixed(2),
			truncate(r.Category, breakdownFieldWidth),
		))
	}
	return strings.Join(lines, "\n")
}

// truncate crops to width runes, not bytes, so a crop never splits a
// multi-byte character.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}
