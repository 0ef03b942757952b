package services

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/nevos-health/nevos-api/internal/models"
)

// BuildAnalysisReport renders a persisted analysis as a plain-text report
// the client can download. Confidence is shown rounded to one decimal.
func BuildAnalysisReport(rec *models.AnalysisRecord) string {
	var b strings.Builder

	b.WriteString("NEVOS Skin Analysis Report\n")
	b.WriteString("==========================\n\n")
	fmt.Fprintf(&b, "Date:       %s\n", rec.CreatedAt.Format("Jan 2, 2006 15:04 MST"))
	fmt.Fprintf(&b, "Condition:  %s\n", rec.ConditionName)
	fmt.Fprintf(&b, "Severity:   %s\n", rec.Severity)
	fmt.Fprintf(&b, "Confidence: %.1f%%\n\n", rec.Confidence)
	fmt.Fprintf(&b, "Description:\n%s\n\n", rec.Description)

	b.WriteString("Recommendations:\n")
	lines := lo.Map(rec.Recommendations, func(r string, i int) string {
		return fmt.Sprintf("  %d. %s", i+1, r)
	})
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")

	b.WriteString("This report is AI-generated and is not a medical diagnosis. " +
		"Consult a healthcare professional for any medical concerns.\n")

	return b.String()
}
