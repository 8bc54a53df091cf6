package report_test

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vetcare/vetportal/client"
	errs "github.com/vetcare/vetportal/errors"
	"github.com/vetcare/vetportal/report"
	"github.com/vetcare/vetportal/resources"
	"github.com/vetcare/vetportal/session"
	"github.com/vetcare/vetportal/test/backend"
	"go.uber.org/zap"
)

var _ = Describe("Aggregator", func() {
	var api *backend.Backend
	var store session.Store
	var c *client.Client
	var aggregator *report.Aggregator
	var ctx context.Context

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		api = backend.New()
		store = session.NewMemoryStore()
		Expect(session.Save(store, session.Session{
			AccessToken:  api.AccessToken(),
			RefreshToken: api.RefreshToken(),
			Role:         session.RoleDoctor,
		})).To(Succeed())
		c, err = client.NewClient(api.BaseURL(), api.RefreshURL(), store, zap.NewNop().Sugar(), client.WithHTTPClient(api.HTTPClient()))
		Expect(err).ToNot(HaveOccurred())
		aggregator = report.NewAggregator(zap.NewNop().Sugar())

		api.SetCollection("clients", []map[string]any{
			{"id": 3, "first_name": "Jane", "last_name": "Doe"},
			{"id": 4, "first_name": "John", "last_name": "Roe"},
		})
		api.SetCollection("patients", []map[string]any{
			{"id": 9, "name": "Luna", "client": 3},
			{"id": 7, "name": "Rex", "client": "4"},
		})
		api.SetCollection("visits", []map[string]any{
			{"id": 20, "patient": 7, "reason": "checkup"},
			{"id": 21, "patient": 9, "reason": "vaccination"},
		})
		api.SetCollection("allergies", []map[string]any{
			{"id": 1, "patient": 7, "allergen": "pollen"},
			{"id": 2, "visit": map[string]any{"id": 20, "patient": 7}, "allergen": "chicken"},
			{"id": 3, "patient": 9, "allergen": "beef"},
			{"id": 4, "allergen": "unknown"},
		})
		api.SetCollection("treatments", []map[string]any{
			{"id": 5, "visit": 20, "name": "bandage"},
			{"id": 6, "visit": 21, "name": "stitches"},
		})
	})

	AfterEach(func() {
		api.Close()
	})

	ids := func(records []resources.Record) []string {
		result := make([]string, 0, len(records))
		for _, record := range records {
			result = append(result, record.ID())
		}
		return result
	}

	It("resolves the patient and its client", func() {
		bundle, err := aggregator.LoadPatientReportData(ctx, c, "7")
		Expect(err).ToNot(HaveOccurred())
		Expect(bundle.Patient.ID()).To(Equal("7"))
		Expect(bundle.Client.ID()).To(Equal("4"))
	})

	It("includes records referencing the patient directly or through their visit", func() {
		bundle, err := aggregator.LoadPatientReportData(ctx, c, "7")
		Expect(err).ToNot(HaveOccurred())
		Expect(ids(bundle.Section(report.SectionAllergies))).To(Equal([]string{"1", "2"}))
		Expect(ids(bundle.Section(report.SectionVisits))).To(Equal([]string{"20"}))
	})

	It("resolves visits referenced by id", func() {
		bundle, err := aggregator.LoadPatientReportData(ctx, c, "7")
		Expect(err).ToNot(HaveOccurred())
		Expect(ids(bundle.Section(report.SectionTreatments))).To(Equal([]string{"5"}))
	})

	It("returns empty sections for collections without records of the patient", func() {
		bundle, err := aggregator.LoadPatientReportData(ctx, c, "7")
		Expect(err).ToNot(HaveOccurred())
		for _, section := range report.Sections {
			Expect(bundle.Sections).To(HaveKey(section.Key))
		}
		Expect(bundle.Section(report.SectionMedications)).To(BeEmpty())
	})

	It("normalizes the requested id", func() {
		bundle, err := aggregator.LoadPatientReportData(ctx, c, " 9 ")
		Expect(err).ToNot(HaveOccurred())
		Expect(bundle.Patient.ID()).To(Equal("9"))
		Expect(ids(bundle.Section(report.SectionAllergies))).To(Equal([]string{"3"}))
	})

	It("handles paginated responses", func() {
		api.SetPaginated(true)
		bundle, err := aggregator.LoadPatientReportData(ctx, c, "7")
		Expect(err).ToNot(HaveOccurred())
		Expect(ids(bundle.Section(report.SectionAllergies))).To(Equal([]string{"1", "2"}))
	})

	It("degrades failing endpoints to empty sections", func() {
		api.FailWith("/api/visits/", http.StatusInternalServerError)
		bundle, err := aggregator.LoadPatientReportData(ctx, c, "7")
		Expect(err).ToNot(HaveOccurred())
		Expect(bundle.Section(report.SectionVisits)).To(BeEmpty())
		Expect(ids(bundle.Section(report.SectionAllergies))).To(Equal([]string{"1", "2"}))
	})

	It("returns a nil client when the client can't be loaded", func() {
		api.FailWith("/api/clients/", http.StatusBadGateway)
		bundle, err := aggregator.LoadPatientReportData(ctx, c, "7")
		Expect(err).ToNot(HaveOccurred())
		Expect(bundle.Client).To(BeNil())
	})

	It("fails when the patient doesn't exist", func() {
		_, err := aggregator.LoadPatientReportData(ctx, c, "8")
		Expect(errors.Is(err, errs.PatientNotFound)).To(BeTrue())
	})

	It("fails when the patients can't be loaded", func() {
		api.FailWith("/api/patients/", http.StatusInternalServerError)
		_, err := aggregator.LoadPatientReportData(ctx, c, "7")
		Expect(errors.Is(err, errs.PatientNotFound)).To(BeTrue())
	})

	It("fails when the session expired", func() {
		Expect(store.Set(session.KeyRefreshToken, "")).To(Succeed())
		api.ExpireAccessToken()
		_, err := aggregator.LoadPatientReportData(ctx, c, "7")
		Expect(errors.Is(err, errs.SessionExpired)).To(BeTrue())
	})
})

var _ = Describe("FilterByPatient", func() {
	It("keeps records of the patient in their original order", func() {
		records := []resources.Record{
			{"id": 1.0, "patient": 7.0},
			{"id": 2.0, "visit": map[string]any{"id": 1.0, "patient": 7.0}},
			{"id": 3.0, "patient": 9.0},
			{"id": 4.0, "patient": "7"},
			{"id": 5.0},
		}
		filtered := report.FilterByPatient(records, "7", nil)
		Expect(filtered).To(Equal([]resources.Record{records[0], records[1], records[3]}))
	})

	It("prefers the direct patient reference over the visit", func() {
		record := resources.Record{"patient": 9.0, "visit": map[string]any{"patient": 7.0}}
		Expect(report.FilterByPatient([]resources.Record{record}, "7", nil)).To(BeEmpty())
	})

	It("excludes records referencing unknown visits", func() {
		record := resources.Record{"visit": 99.0}
		Expect(report.FilterByPatient([]resources.Record{record}, "7", map[string]resources.Record{})).To(BeEmpty())
	})
})
