package report

import (
	"sort"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"
	"github.com/vetcare/vetportal/resources"
)

const (
	WorkbookSheetNameSummary = "Summary"
)

// Workbook exports a report bundle as a spreadsheet with a summary sheet and one sheet per section
type Workbook struct {
	bundle  *Bundle
	created time.Time
}

func NewWorkbook(bundle *Bundle, created time.Time) Workbook {
	return Workbook{bundle: bundle, created: created}
}

func (w Workbook) Generate() (*xlsx.File, error) {
	report := xlsx.NewFile()

	components := []func(report *xlsx.File) error{
		w.addSummarySheet,
		w.addSectionSheets,
	}
	for _, fn := range components {
		if err := fn(report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (w Workbook) addSummarySheet(report *xlsx.File) error {
	sh, err := report.AddSheet(WorkbookSheetNameSummary)
	if err != nil {
		return err
	}

	patient, err := NewPatientInfo(w.bundle.Patient)
	if err != nil {
		return err
	}
	var client *ClientInfo
	if w.bundle.Client != nil {
		info, err := NewClientInfo(w.bundle.Client)
		if err != nil {
			return err
		}
		client = &info
	}

	sh.AddRow().AddCell().SetValue(reportTitle)
	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue("Report Generated")
	currentRow.AddCell().SetValue(w.created.Format(time.RFC3339))
	sh.AddRow()

	for _, line := range SummaryLines(patient, client) {
		label, value, _ := strings.Cut(line, ": ")
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(label)
		currentRow.AddCell().SetValue(value)
	}
	sh.AddRow()

	for _, section := range Sections {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(section.Title)
		currentRow.AddCell().SetValue(len(w.bundle.Section(section.Key)))
	}

	return nil
}

func (w Workbook) addSectionSheets(report *xlsx.File) error {
	for _, section := range Sections {
		sh, err := report.AddSheet(section.Title)
		if err != nil {
			return err
		}
		addRecords(sh, w.bundle.Section(section.Key))
	}
	return nil
}

func addRecords(sh *xlsx.Sheet, records []resources.Record) {
	if len(records) == 0 {
		sh.AddRow().AddCell().SetValue(NoRecords)
		return
	}

	columns := recordColumns(records)
	currentRow := sh.AddRow()
	for _, column := range columns {
		currentRow.AddCell().SetValue(column)
	}

	for _, record := range records {
		currentRow = sh.AddRow()
		for _, column := range columns {
			currentRow.AddCell().SetValue(record.String(column))
		}
	}
}

// recordColumns returns the union of the record fields, id first and the rest sorted
func recordColumns(records []resources.Record) []string {
	fields := make(map[string]struct{})
	for _, record := range records {
		for field := range record {
			fields[field] = struct{}{}
		}
	}

	columns := make([]string, 0, len(fields))
	for field := range fields {
		if field != "id" {
			columns = append(columns, field)
		}
	}
	sort.Strings(columns)

	if _, ok := fields["id"]; ok {
		columns = append([]string{"id"}, columns...)
	}
	return columns
}
