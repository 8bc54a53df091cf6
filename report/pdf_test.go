package report_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mohae/deepcopy"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vetcare/vetportal/config"
	errs "github.com/vetcare/vetportal/errors"
	"github.com/vetcare/vetportal/report"
	reportTest "github.com/vetcare/vetportal/report/test"
	"github.com/vetcare/vetportal/resources"
	"github.com/vetcare/vetportal/test"
	"github.com/vetcare/vetportal/test/backend"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type textCall struct {
	page int
	y    float64
	text string
}

type noPhoto struct{}

func (noPhoto) Load(context.Context, string) (*report.Photo, bool) {
	return nil, false
}

func encodePNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	Expect(png.Encode(buf, img)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("PDF Renderer", func() {
	var ctrl *gomock.Controller
	var doc *reportTest.MockDocument
	var calls []textCall
	var pages int
	var layout report.Layout
	var renderer *report.PDFRenderer
	var ctx context.Context

	newRenderer := func(photos report.PhotoLoader, opts ...report.RendererOption) *report.PDFRenderer {
		opts = append([]report.RendererOption{
			report.WithOutputDir(GinkgoT().TempDir()),
			report.WithClock(func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }),
		}, opts...)
		return report.NewPDFRenderer(&config.Config{}, photos, zap.NewNop().Sugar(), opts...)
	}

	BeforeEach(func() {
		ctx = context.Background()
		calls = nil
		pages = 0
		layout = report.DefaultLayout
		ctrl = gomock.NewController(GinkgoT())
		doc = reportTest.NewMockDocument(ctrl)
		doc.EXPECT().AddPage().Do(func() { pages++ }).AnyTimes()
		doc.EXPECT().SetFont(gomock.Any(), gomock.Any()).AnyTimes()
		doc.EXPECT().Text(gomock.Any(), gomock.Any(), gomock.Any()).Do(func(x, y float64, text string) {
			calls = append(calls, textCall{page: pages, y: y, text: text})
		}).AnyTimes()
		doc.EXPECT().SplitLines(gomock.Any(), gomock.Any()).DoAndReturn(func(text string, width float64) []string {
			return strings.Split(text, "\n")
		}).AnyTimes()

		renderer = newRenderer(noPhoto{})
	})

	texts := func() []string {
		result := make([]string, 0, len(calls))
		for _, call := range calls {
			result = append(result, call.text)
		}
		return result
	}

	It("requires a patient", func() {
		_, err := renderer.Generate(ctx, &report.Bundle{})
		Expect(errors.Is(err, errs.PatientNotFound)).To(BeTrue())
		_, err = renderer.Generate(ctx, nil)
		Expect(errors.Is(err, errs.PatientNotFound)).To(BeTrue())
	})

	It("renders the summary and every section in order", func() {
		bundle := reportTest.RandomBundle(0, 3)
		bundle.Sections[report.SectionDocuments] = []resources.Record{}
		Expect(renderer.Render(ctx, doc, bundle)).To(Succeed())

		rendered := texts()
		Expect(rendered).To(ContainElement(HavePrefix("Patient: ")))
		Expect(rendered).To(ContainElement("Documents (0)"))

		position := -1
		for _, section := range report.Sections {
			title := report.SectionTitle(section, len(bundle.Section(section.Key)))
			index := indexOf(rendered, title)
			Expect(index).To(BeNumerically(">", position), title)
			position = index
		}
		Expect(rendered[indexOf(rendered, "Documents (0)")+1]).To(Equal(report.NoRecords))
	})

	It("renders exactly eight summary lines", func() {
		bundle := reportTest.RandomBundle(0, 0)
		Expect(renderer.Render(ctx, doc, bundle)).To(Succeed())

		rendered := texts()
		start := indexOf(rendered, "Summary")
		Expect(start).To(BeNumerically(">=", 0))
		Expect(rendered[start+9]).To(Equal(report.SectionTitle(report.Sections[0], 0)))
	})

	It("renders placeholders when the client is unknown", func() {
		bundle := reportTest.RandomBundle(0, 0)
		bundle.Client = nil
		Expect(renderer.Render(ctx, doc, bundle)).To(Succeed())
		Expect(texts()).To(ContainElement("Owner: Not available"))
	})

	It("keeps every line within the printable area", func() {
		bundle := reportTest.RandomBundle(20, 40)
		Expect(renderer.Render(ctx, doc, bundle)).To(Succeed())
		Expect(pages).To(BeNumerically(">", 1))
		for _, call := range calls {
			Expect(call.y).To(BeNumerically("<=", layout.PageHeight-layout.MarginBottom))
			Expect(call.y).To(BeNumerically(">", layout.MarginTop))
		}
	})

	It("doesn't split wrapped entries across pages", func() {
		bundle := reportTest.RandomBundle(0, 0)
		records := make([]resources.Record, 0)
		for i := 0; i < 60; i++ {
			records = append(records, resources.Record{"id": float64(i), "name": "first\nsecond\nthird"})
		}
		bundle.Sections[report.SectionTreatments] = records
		Expect(renderer.Render(ctx, doc, bundle)).To(Succeed())

		for i, call := range calls {
			if call.text == "first" {
				Expect(calls[i+1].page).To(Equal(call.page))
				Expect(calls[i+2].page).To(Equal(call.page))
				Expect(calls[i+2].y - call.y).To(BeNumerically("~", 2*layout.LineHeight))
			}
		}
		Expect(pages).To(BeNumerically(">", 1))
	})

	It("starts a new page when a group doesn't fit the remaining space", func() {
		bundle := reportTest.RandomBundle(0, 0)
		records := make([]resources.Record, 0)
		for i := 0; i < 200; i++ {
			records = append(records, resources.Record{"id": float64(i), "name": "treatment"})
		}
		bundle.Sections[report.SectionTreatments] = records
		Expect(renderer.Render(ctx, doc, bundle)).To(Succeed())

		for i := 1; i < len(calls); i++ {
			if calls[i].page != calls[i-1].page {
				Expect(calls[i].y).To(BeNumerically("~", layout.MarginTop+layout.LineHeight))
				Expect(calls[i-1].y + layout.LineHeight).To(BeNumerically(">", layout.PageHeight-layout.MarginBottom))
			}
		}
	})

	It("doesn't modify the bundle", func() {
		bundle := reportTest.RandomBundle(1, 3)
		original := deepcopy.Copy(bundle).(*report.Bundle)
		Expect(renderer.Render(ctx, doc, bundle)).To(Succeed())
		Expect(bundle).To(Equal(original))
	})

	Context("With a photo", func() {
		var api *backend.Backend

		BeforeEach(func() {
			api = backend.New()
		})

		AfterEach(func() {
			api.Close()
		})

		newPhotoRenderer := func() *report.PDFRenderer {
			resolve := func(ref string) (string, error) {
				return api.URL + ref, nil
			}
			fetcher, err := report.NewPhotoFetcherWithClient(api.HTTPClient(), resolve, 8, zap.NewNop().Sugar())
			Expect(err).ToNot(HaveOccurred())
			return newRenderer(fetcher)
		}

		It("draws the thumbnail next to the summary", func() {
			api.SetPhoto("/media/rex.png", encodePNG(200, 100))
			bundle := reportTest.RandomBundle(0, 0)
			bundle.Patient["photo"] = "/media/rex.png"

			isPNG := test.Match(func(data []byte) bool {
				_, err := png.Decode(bytes.NewReader(data))
				return err == nil
			})
			doc.EXPECT().Image(gomock.Any(), isPNG, gomock.Any(), gomock.Any(), layout.PhotoWidth, layout.PhotoWidth/2).Return(nil)
			Expect(newPhotoRenderer().Render(ctx, doc, bundle)).To(Succeed())
		})

		It("renders the report without the photo when it can't be loaded", func() {
			bundle := reportTest.RandomBundle(0, 0)
			bundle.Patient["photo"] = "/media/missing.png"
			Expect(newPhotoRenderer().Render(ctx, doc, bundle)).To(Succeed())
			Expect(texts()).To(ContainElement("Summary"))
		})

		It("renders the report without the photo when it can't be decoded", func() {
			api.SetPhoto("/media/rex.png", []byte("not an image"))
			bundle := reportTest.RandomBundle(0, 0)
			bundle.Patient["photo"] = "/media/rex.png"
			Expect(newPhotoRenderer().Render(ctx, doc, bundle)).To(Succeed())
		})

		It("renders the report without the photo when the document rejects it", func() {
			api.SetPhoto("/media/rex.png", encodePNG(10, 10))
			bundle := reportTest.RandomBundle(0, 0)
			bundle.Patient["photo"] = "/media/rex.png"

			doc.EXPECT().Image(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("unsupported"))
			Expect(newPhotoRenderer().Render(ctx, doc, bundle)).To(Succeed())
		})
	})

	Describe("Generate", func() {
		It("writes a pdf named after the patient", func() {
			dir := GinkgoT().TempDir()
			renderer = newRenderer(noPhoto{}, report.WithOutputDir(dir))
			bundle := reportTest.RandomBundle(1, 5)
			bundle.Patient["name"] = "Rex O'Malley!"

			path, err := renderer.Generate(ctx, bundle)
			Expect(err).ToNot(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(dir, "Rex_OMalley_full_report.pdf")))

			content, err := os.ReadFile(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(content)).To(HavePrefix("%PDF"))
		})

		It("returns output errors", func() {
			doc.EXPECT().Output(gomock.Any()).Return(errors.New("disk full"))
			renderer = newRenderer(noPhoto{}, report.WithDocumentFactory(func() report.Document { return doc }))
			_, err := renderer.Generate(ctx, reportTest.RandomBundle(0, 1))
			Expect(err).To(MatchError(ContainSubstring("disk full")))
		})
	})
})

var _ = Describe("Photo fetcher", func() {
	var api *backend.Backend
	var fetcher *report.PhotoFetcher

	BeforeEach(func() {
		var err error
		api = backend.New()
		resolve := func(ref string) (string, error) {
			return api.URL + ref, nil
		}
		fetcher, err = report.NewPhotoFetcherWithClient(api.HTTPClient(), resolve, 8, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		api.Close()
	})

	It("caches thumbnails by url", func() {
		api.SetPhoto("/media/rex.png", encodePNG(20, 10))
		photo, ok := fetcher.Load(context.Background(), "/media/rex.png")
		Expect(ok).To(BeTrue())
		Expect(photo.Width).To(Equal(20))
		Expect(photo.Height).To(Equal(10))

		_, ok = fetcher.Load(context.Background(), "/media/rex.png")
		Expect(ok).To(BeTrue())
		Expect(api.RequestsTo("/media/rex.png")).To(HaveLen(1))
	})

	It("doesn't cache failures", func() {
		_, ok := fetcher.Load(context.Background(), "/media/rex.png")
		Expect(ok).To(BeFalse())
		api.SetPhoto("/media/rex.png", encodePNG(20, 10))
		_, ok = fetcher.Load(context.Background(), "/media/rex.png")
		Expect(ok).To(BeTrue())
	})

	It("ignores empty references", func() {
		_, ok := fetcher.Load(context.Background(), "")
		Expect(ok).To(BeFalse())
		Expect(api.Requests()).To(BeEmpty())
	})

	It("scales large photos down", func() {
		photo, err := report.EncodeThumbnail(encodePNG(1000, 500), 100)
		Expect(err).ToNot(HaveOccurred())
		Expect(photo.Width).To(Equal(100))
		Expect(photo.Height).To(Equal(50))

		decoded, err := png.Decode(bytes.NewReader(photo.Data))
		Expect(err).ToNot(HaveOccurred())
		Expect(decoded.Bounds().Dx()).To(Equal(100))
	})

	It("fails on unsupported content", func() {
		_, err := report.EncodeThumbnail([]byte("<html></html>"), 100)
		Expect(err).To(HaveOccurred())
	})
})

func indexOf(values []string, value string) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return -1
}
