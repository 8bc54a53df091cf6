package report

import (
	"regexp"
	"strings"

	"github.com/vetcare/vetportal/resources"
)

const (
	pdfSuffix      = "_full_report.pdf"
	defaultBase    = "patient"
	workbookSuffix = "_full_report.xlsx"
	chartSuffix    = "_vitals.html"
)

var (
	whitespace       = regexp.MustCompile(`\s+`)
	nonFilenameChars = regexp.MustCompile(`[^\w.-]+`)
)

// ReportBaseName derives a file name from the display name of the patient, or its id.
// Whitespace becomes an underscore, other characters than word characters, dots and dashes are removed.
func ReportBaseName(patient resources.Record) string {
	name := patient.FirstString("name")
	if name == "" {
		name = patient.ID()
	}

	name = whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
	name = nonFilenameChars.ReplaceAllString(name, "")
	if name == "" {
		return defaultBase
	}
	return name
}

func ReportFilename(patient resources.Record) string {
	return ReportBaseName(patient) + pdfSuffix
}

func WorkbookFilename(patient resources.Record) string {
	return ReportBaseName(patient) + workbookSuffix
}

func ChartFilename(patient resources.Record) string {
	return ReportBaseName(patient) + chartSuffix
}
