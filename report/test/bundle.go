package test

import (
	"github.com/vetcare/vetportal/report"
	"github.com/vetcare/vetportal/resources"
	resourcesTest "github.com/vetcare/vetportal/resources/test"
	"github.com/vetcare/vetportal/test"
)

// RandomBundle returns a bundle with between min and max records in every section
func RandomBundle(min, max int) *report.Bundle {
	client := resourcesTest.RandomClient()
	patient := resourcesTest.RandomPatient(client)
	patientId := patient["id"]

	bundle := &report.Bundle{
		Patient:  patient,
		Client:   client,
		Sections: make(map[report.SectionKey][]resources.Record, len(report.Sections)),
	}
	for _, section := range report.Sections {
		count := test.Faker.IntBetween(min, max)
		records := make([]resources.Record, 0, count)
		for i := 0; i < count; i++ {
			switch section.Key {
			case report.SectionVisits:
				records = append(records, resourcesTest.RandomVisit(patientId))
			case report.SectionVitals:
				records = append(records, resourcesTest.RandomVitals(patientId))
			default:
				records = append(records, resourcesTest.RandomSectionRecord(patientId))
			}
		}
		bundle.Sections[section.Key] = records
	}

	return bundle
}
