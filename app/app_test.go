package app_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vetcare/vetportal/app"
	"github.com/vetcare/vetportal/navigation"
	"github.com/vetcare/vetportal/report"
	"github.com/vetcare/vetportal/resources"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

var _ = Describe("Dependencies", func() {
	BeforeEach(func() {
		GinkgoT().Setenv("VETPORTAL_SESSION_DIR", GinkgoT().TempDir())
		GinkgoT().Setenv("VETPORTAL_OUTPUT_DIR", GinkgoT().TempDir())
		GinkgoT().Setenv("LOG_LEVEL", "error")
	})

	It("provides every component of the portal", func() {
		var controller *navigation.Controller
		var service resources.Service
		var aggregator *report.Aggregator
		var renderer *report.PDFRenderer

		options := append(app.Dependencies(), fx.Populate(&controller, &service, &aggregator, &renderer))
		application := fxtest.New(GinkgoT(), options...)
		application.RequireStart()
		defer application.RequireStop()

		Expect(controller).ToNot(BeNil())
		Expect(service).ToNot(BeNil())
		Expect(aggregator).ToNot(BeNil())
		Expect(renderer).ToNot(BeNil())
	})
})
