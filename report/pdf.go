package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vetcare/vetportal/config"
	errs "github.com/vetcare/vetportal/errors"
	"go.uber.org/zap"
)

const (
	reportTitle    = "Patient Report"
	summaryTitle   = "Summary"
	photoName      = "patient-photo"
	photoGap       = 5
	entryIndent    = 4
	generatedFmt   = "2006-01-02 15:04"
	outputDirPerm  = 0755
	outputFilePerm = 0644
)

type PDFRenderer struct {
	newDocument func() Document
	photos      PhotoLoader
	layout      Layout
	outputDir   string
	now         func() time.Time
	logger      *zap.SugaredLogger
}

type RendererOption func(*PDFRenderer)

func WithDocumentFactory(newDocument func() Document) RendererOption {
	return func(r *PDFRenderer) {
		r.newDocument = newDocument
	}
}

func WithLayout(layout Layout) RendererOption {
	return func(r *PDFRenderer) {
		r.layout = layout
	}
}

func WithClock(now func() time.Time) RendererOption {
	return func(r *PDFRenderer) {
		r.now = now
	}
}

func WithOutputDir(dir string) RendererOption {
	return func(r *PDFRenderer) {
		r.outputDir = dir
	}
}

func NewPDFRenderer(cfg *config.Config, photos PhotoLoader, logger *zap.SugaredLogger, opts ...RendererOption) *PDFRenderer {
	r := &PDFRenderer{
		newDocument: NewPDFDocument,
		photos:      photos,
		layout:      DefaultLayout,
		outputDir:   cfg.OutputDir,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Generate renders the report of the bundle and writes it to the output directory.
// It returns the path of the written file.
func (r *PDFRenderer) Generate(ctx context.Context, bundle *Bundle) (string, error) {
	if bundle == nil || bundle.Patient == nil {
		return "", fmt.Errorf("%w: a report requires a patient", errs.PatientNotFound)
	}

	doc := r.newDocument()
	if err := r.Render(ctx, doc, bundle); err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.outputDir, outputDirPerm); err != nil {
		return "", fmt.Errorf("unable to create output directory: %w", err)
	}
	path := filepath.Join(r.outputDir, ReportFilename(bundle.Patient))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, outputFilePerm)
	if err != nil {
		return "", fmt.Errorf("unable to create report file: %w", err)
	}
	defer f.Close()

	if err := doc.Output(f); err != nil {
		return "", fmt.Errorf("unable to write report: %w", err)
	}

	r.logger.Infow("generated patient report", "patientId", bundle.Patient.ID(), "path", path)
	return path, nil
}

// Render lays out the report of the bundle on doc
func (r *PDFRenderer) Render(ctx context.Context, doc Document, bundle *Bundle) error {
	if bundle == nil || bundle.Patient == nil {
		return fmt.Errorf("%w: a report requires a patient", errs.PatientNotFound)
	}

	patient, err := NewPatientInfo(bundle.Patient)
	if err != nil {
		r.logger.Warnw("unable to decode patient", "patientId", bundle.Patient.ID(), zap.Error(err))
		patient = PatientInfo{Id: bundle.Patient.ID(), Name: bundle.Patient.FirstString("name")}
	}

	var client *ClientInfo
	if bundle.Client != nil {
		info, err := NewClientInfo(bundle.Client)
		if err != nil {
			r.logger.Warnw("unable to decode client", "clientId", bundle.Client.ID(), zap.Error(err))
		} else {
			client = &info
		}
	}

	w := &pageWriter{doc: doc, layout: r.layout}
	w.newPage()

	doc.SetFont(FontStyleBold, r.layout.TitleSize)
	w.writeLines(r.layout.MarginLeft, []string{reportTitle})
	doc.SetFont(FontStyleRegular, r.layout.FontSize)
	w.writeLines(r.layout.MarginLeft, []string{"Generated " + r.now().Format(generatedFmt)})
	w.space(1)

	r.renderSummary(ctx, w, patient, client)

	for _, section := range Sections {
		records := bundle.Section(section.Key)

		w.space(0.5)
		doc.SetFont(FontStyleBold, r.layout.HeadingSize)
		w.writeLines(r.layout.MarginLeft, []string{SectionTitle(section, len(records))})
		doc.SetFont(FontStyleRegular, r.layout.FontSize)

		x := r.layout.MarginLeft + entryIndent
		if len(records) == 0 {
			w.writeLines(x, []string{NoRecords})
			continue
		}
		for _, record := range records {
			w.writeLines(x, doc.SplitLines(FormatRecord(section, record), r.layout.ContentWidth()-entryIndent))
		}
	}

	return nil
}

func (r *PDFRenderer) renderSummary(ctx context.Context, w *pageWriter, patient PatientInfo, client *ClientInfo) {
	top := w.cursor
	bottom := top
	width := r.layout.ContentWidth()

	if r.photos != nil {
		if photo, ok := r.photos.Load(ctx, patient.PhotoRef()); ok {
			photoWidth := r.layout.PhotoWidth
			photoHeight := photoWidth * float64(photo.Height) / float64(photo.Width)
			x := r.layout.PageWidth - r.layout.MarginRight - photoWidth
			if err := w.doc.Image(photoName, photo.Data, x, top, photoWidth, photoHeight); err != nil {
				r.logger.Debugw("unable to draw photo", zap.Error(err))
			} else {
				bottom = top + photoHeight
				width -= photoWidth + photoGap
			}
		}
	}

	w.doc.SetFont(FontStyleBold, r.layout.HeadingSize)
	w.writeLines(r.layout.MarginLeft, []string{summaryTitle})
	w.doc.SetFont(FontStyleRegular, r.layout.FontSize)
	for _, line := range SummaryLines(patient, client) {
		w.writeLines(r.layout.MarginLeft, w.doc.SplitLines(line, width))
	}

	if w.cursor < bottom {
		w.cursor = bottom
	}
}

// pageWriter keeps track of the vertical position on the current page
type pageWriter struct {
	doc    Document
	layout Layout
	cursor float64
}

func (w *pageWriter) newPage() {
	w.doc.AddPage()
	w.cursor = w.layout.MarginTop
}

// writeLines writes a group of lines on the same page, starting a new page
// if the remaining space isn't sufficient for all of them
func (w *pageWriter) writeLines(x float64, lines []string) {
	needed := float64(len(lines)) * w.layout.LineHeight
	if w.cursor+needed > w.layout.PageHeight-w.layout.MarginBottom {
		w.newPage()
	}
	for _, line := range lines {
		w.cursor += w.layout.LineHeight
		w.doc.Text(x, w.cursor, line)
	}
}

func (w *pageWriter) space(lines float64) {
	w.cursor += lines * w.layout.LineHeight
}
