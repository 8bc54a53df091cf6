package report_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vetcare/vetportal/report"
	"github.com/vetcare/vetportal/resources"
)

var _ = Describe("Format", func() {
	Describe("PatientInfo", func() {
		It("decodes weakly typed records", func() {
			info, err := report.NewPatientInfo(resources.Record{
				"id":      7.0,
				"name":    "Rex",
				"species": "Dog",
				"client":  map[string]any{"id": 3.0},
				"photo":   map[string]any{"id": "photo-1"},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(info.Id).To(Equal("7"))
			Expect(info.DisplayName()).To(Equal("Rex"))
			Expect(info.PhotoRef()).To(Equal("photo-1"))
		})

		It("falls back to the id as display name", func() {
			info, err := report.NewPatientInfo(resources.Record{"id": "7"})
			Expect(err).ToNot(HaveOccurred())
			Expect(info.DisplayName()).To(Equal("7"))
		})
	})

	Describe("ClientInfo", func() {
		It("combines first and last name", func() {
			info, err := report.NewClientInfo(resources.Record{"first_name": "Jane", "last_name": "Doe"})
			Expect(err).ToNot(HaveOccurred())
			Expect(info.DisplayName()).To(Equal("Jane Doe"))
		})
	})

	Describe("SummaryLines", func() {
		It("returns eight lines", func() {
			lines := report.SummaryLines(report.PatientInfo{Id: "7", Name: "Rex"}, &report.ClientInfo{Name: "Jane", Email: "jane@example.com"})
			Expect(lines).To(HaveLen(8))
			Expect(lines[0]).To(Equal("Patient: Rex"))
			Expect(lines[6]).To(Equal("Owner: Jane"))
			Expect(lines[7]).To(Equal("Owner Contact: jane@example.com | N/A"))
		})

		It("uses placeholders without a client", func() {
			lines := report.SummaryLines(report.PatientInfo{Id: "7"}, nil)
			Expect(lines).To(HaveLen(8))
			Expect(lines[6]).To(Equal("Owner: Not available"))
			Expect(lines[7]).To(Equal("Owner Contact: N/A | N/A"))
		})
	})

	Describe("FormatRecord", func() {
		vitals, _ := report.SectionByKey(report.SectionVitals)
		medications, _ := report.SectionByKey(report.SectionMedications)

		It("joins the first available alternative of every field", func() {
			record := resources.Record{"medication": "Amoxicillin", "dose": "50mg", "frequency": "twice a day"}
			Expect(report.FormatRecord(medications, record)).To(Equal("Amoxicillin | 50mg | twice a day"))
		})

		It("adds units to vitals", func() {
			record := resources.Record{"date": "2026-01-02", "weight": 12.5, "temperature": 38.6}
			Expect(report.FormatRecord(vitals, record)).To(Equal("2026-01-02 | 12.5 kg | 38.6 °C"))
		})

		It("falls back to the id", func() {
			Expect(report.FormatRecord(medications, resources.Record{"id": 3.0})).To(Equal("#3"))
		})
	})

	It("titles sections with their record count", func() {
		Expect(report.SectionTitle(report.Sections[3], 2)).To(Equal("Medical Notes (2)"))
	})
})
