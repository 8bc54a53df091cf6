package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/vetcare/vetportal/client"
	"github.com/vetcare/vetportal/config"
	"github.com/vetcare/vetportal/navigation"
	"github.com/vetcare/vetportal/report"
	"github.com/vetcare/vetportal/resources"
)

var reportParams = struct {
	PatientId string
}{}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Patient reports",
	Long:  "The report command generates the full report of a patient",
}

var reportPDFCmd = &cobra.Command{
	Use:   "pdf <patientId>",
	Args:  cobra.ExactArgs(1),
	Short: "Generate the pdf report of a patient",
	RunE: func(cmd *cobra.Command, args []string) error {
		reportParams.PatientId = args[0]
		return Run(generatePDFReport)
	},
}

var reportXLSXCmd = &cobra.Command{
	Use:   "xlsx <patientId>",
	Args:  cobra.ExactArgs(1),
	Short: "Export the report data of a patient as a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		reportParams.PatientId = args[0]
		return Run(generateWorkbook)
	},
}

var reportChartCmd = &cobra.Command{
	Use:   "chart <patientId>",
	Args:  cobra.ExactArgs(1),
	Short: "Render the vitals of a patient as a html chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		reportParams.PatientId = args[0]
		return Run(generateVitalsChart)
	},
}

func init() {
	reportCmd.AddCommand(reportPDFCmd)
	reportCmd.AddCommand(reportXLSXCmd)
	reportCmd.AddCommand(reportChartCmd)
	rootCmd.AddCommand(reportCmd)
}

// withReportData loads the report data of the patient and passes it to fn when the session may generate reports
func withReportData(controller *navigation.Controller, c *client.Client, aggregator *report.Aggregator, fn func(context.Context, *report.Bundle) error) error {
	return controller.Run(context.TODO(), resources.ReportRoles(), func(ctx context.Context) error {
		bundle, err := aggregator.LoadPatientReportData(ctx, c, reportParams.PatientId)
		if err != nil {
			return err
		}
		return fn(ctx, bundle)
	})
}

func generatePDFReport(controller *navigation.Controller, c *client.Client, aggregator *report.Aggregator, renderer *report.PDFRenderer) error {
	return withReportData(controller, c, aggregator, func(ctx context.Context, bundle *report.Bundle) error {
		path, err := renderer.Generate(ctx, bundle)
		if err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", path)
		return nil
	})
}

func generateWorkbook(cfg *config.Config, controller *navigation.Controller, c *client.Client, aggregator *report.Aggregator) error {
	return withReportData(controller, c, aggregator, func(ctx context.Context, bundle *report.Bundle) error {
		file, err := report.NewWorkbook(bundle, time.Now()).Generate()
		if err != nil {
			return err
		}

		path, err := outputPath(cfg, report.WorkbookFilename(bundle.Patient))
		if err != nil {
			return err
		}
		if err := file.Save(path); err != nil {
			return err
		}
		fmt.Printf("Workbook written to %s\n", path)
		return nil
	})
}

func generateVitalsChart(cfg *config.Config, controller *navigation.Controller, c *client.Client, aggregator *report.Aggregator) error {
	return withReportData(controller, c, aggregator, func(ctx context.Context, bundle *report.Bundle) error {
		buf := &bytes.Buffer{}
		if err := report.NewVitalsChart(bundle).Render(buf); err != nil {
			return err
		}

		path, err := outputPath(cfg, report.ChartFilename(bundle.Patient))
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return err
		}
		fmt.Printf("Chart written to %s\n", path)
		return nil
	})
}

func outputPath(cfg *config.Config, filename string) (string, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("unable to create output directory: %w", err)
	}
	return filepath.Join(cfg.OutputDir, filename), nil
}
