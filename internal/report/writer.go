package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Report types control the column layout of the rendered text.
const (
	TypeCalculation   = "calculation"
	TypeOnlineAnswers = "online answers"
	TypeTaxReturn     = "tax return"
)

// Report is a fully resolved set of answers ready to render.
type Report struct {
	PersonName         string
	UniqueTaxReference string
	TaxYear            string
	Type               string
	Answers            []Answer
}

// Title is the heading line identifying the report.
func (r *Report) Title() string {
	return fmt.Sprintf("HMRC %s %s for %s - UTR %s", r.Type, r.TaxYear, r.PersonName, r.UniqueTaxReference)
}

// positionAnswer lays the answer columns out at fixed widths. Online
// answers show box and value only; printed forms add the question
// wording between them.
func (r *Report) positionAnswer(a Answer) string {
	// The "(GBP)" suffix marks currency boxes in the question list but
	// is noise in the rendered column.
	box := strings.TrimSuffix(a.Box, " (GBP)")
	if r.Type == TypeOnlineAnswers {
		return fmt.Sprintf("%-55s%s", box, a.Value)
	}
	return fmt.Sprintf("%-5s%-60s%s", box, a.Question, a.Value)
}

// Render produces the full report text with section and header breaks.
func (r *Report) Render() string {
	var b strings.Builder
	b.WriteString(r.Title())
	b.WriteString("\n")

	previousSection := ""
	previousHeader := ""
	for _, a := range r.Answers {
		if a.Section != previousSection {
			previousSection = a.Section
			fmt.Fprintf(&b, "\n\n%s\n\n", strings.ToUpper(a.Section))
		}
		if a.Header != previousHeader {
			previousHeader = a.Header
			fmt.Fprintf(&b, "\n%s\n\n", strings.ToUpper(a.Header))
		}
		if a.Note != "" {
			b.WriteString(a.Note)
			b.WriteString("\n")
		}
		b.WriteString(r.positionAnswer(a))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nEnd of %s\n", r.Title())
	return b.String()
}

// FileName is the report's file name under dir, derived from the tax
// year, person and report type.
func (r *Report) FileName(dir string) string {
	sanitize := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), " ", "_")
	}
	name := fmt.Sprintf("%s_%s_%s.txt",
		strings.ReplaceAll(r.TaxYear, " ", "_"),
		sanitize(r.PersonName),
		sanitize(r.Type),
	)
	return filepath.Join(dir, name)
}

// Write renders the report to its file under dir, creating the
// directory and overwriting any previous run.
func (r *Report) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	path := r.FileName(dir)
	if err := os.WriteFile(path, []byte(r.Render()), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
