package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/vetcare/vetportal/resources"
)

const (
	seriesWeight      = "Weight (kg)"
	seriesTemperature = "Temperature (°C)"
)

var vitalsDateFields = []string{"date", "recorded_at", "created_at"}

// VitalsChart renders the weight and temperature of the patient over time as a html line chart
type VitalsChart struct {
	bundle *Bundle
}

func NewVitalsChart(bundle *Bundle) VitalsChart {
	return VitalsChart{bundle: bundle}
}

func (v VitalsChart) Render(w io.Writer) error {
	vitals := v.bundle.Section(SectionVitals)
	if len(vitals) == 0 {
		return fmt.Errorf("patient has no vitals")
	}

	xAxis := make([]string, 0, len(vitals))
	weight := make([]opts.LineData, 0, len(vitals))
	temperature := make([]opts.LineData, 0, len(vitals))
	for i, record := range vitals {
		date := record.FirstString(vitalsDateFields...)
		if date == "" {
			date = "#" + strconv.Itoa(i+1)
		}
		xAxis = append(xAxis, date)
		weight = append(weight, lineData(record, "weight"))
		temperature = append(temperature, lineData(record, "temperature"))
	}

	patient, err := NewPatientInfo(v.bundle.Patient)
	if err != nil {
		return err
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Vitals",
			Subtitle: patient.DisplayName(),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	)

	line.SetXAxis(xAxis).
		AddSeries(seriesWeight, weight).
		AddSeries(seriesTemperature, temperature).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(true),
			}),
		)

	return line.Render(w)
}

// lineData returns the numeric value of the field, or an empty point when it's missing
func lineData(record resources.Record, field string) opts.LineData {
	value := strings.TrimSpace(record.String(field))
	if value == "" {
		return opts.LineData{Value: nil}
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return opts.LineData{Value: nil}
	}
	return opts.LineData{Value: f}
}
