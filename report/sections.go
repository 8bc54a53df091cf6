package report

import "github.com/vetcare/vetportal/resources"

type SectionKey string

const (
	SectionAllergies    SectionKey = "allergies"
	SectionVisits       SectionKey = "visits"
	SectionVitals       SectionKey = "vitals"
	SectionMedicalNotes SectionKey = "medical_notes"
	SectionMedications  SectionKey = "medications"
	SectionDocuments    SectionKey = "documents"
	SectionTreatments   SectionKey = "treatments"
)

type Section struct {
	Key   SectionKey
	Title string
	Kind  resources.Kind
	// Fields used to format a record of the section, each entry lists alternative field names
	Fields [][]string
}

// Sections of a patient report in the order they are rendered
var Sections = []Section{
	{
		Key:   SectionAllergies,
		Title: "Allergies",
		Kind:  resources.Allergies,
		Fields: [][]string{
			{"allergen", "name", "substance"},
			{"severity"},
			{"reaction", "notes"},
		},
	},
	{
		Key:   SectionVisits,
		Title: "Visits",
		Kind:  resources.Visits,
		Fields: [][]string{
			{"visit_date", "date", "created_at"},
			{"reason", "title"},
			{"notes", "diagnosis"},
		},
	},
	{
		Key:   SectionVitals,
		Title: "Vitals",
		Kind:  resources.Vitals,
		Fields: [][]string{
			{"date", "recorded_at", "created_at"},
			{"weight"},
			{"temperature"},
			{"heart_rate"},
			{"respiratory_rate"},
		},
	},
	{
		Key:   SectionMedicalNotes,
		Title: "Medical Notes",
		Kind:  resources.MedicalNotes,
		Fields: [][]string{
			{"date", "created_at"},
			{"title"},
			{"note", "content", "notes", "description"},
		},
	},
	{
		Key:   SectionMedications,
		Title: "Medications",
		Kind:  resources.Medications,
		Fields: [][]string{
			{"name", "medication", "drug"},
			{"dosage", "dose"},
			{"frequency"},
			{"start_date", "date"},
		},
	},
	{
		Key:   SectionDocuments,
		Title: "Documents",
		Kind:  resources.Documents,
		Fields: [][]string{
			{"title", "name", "file_name"},
			{"document_type", "type"},
			{"uploaded_at", "date", "created_at"},
		},
	},
	{
		Key:   SectionTreatments,
		Title: "Treatments",
		Kind:  resources.Treatments,
		Fields: [][]string{
			{"name", "treatment", "procedure"},
			{"date", "treatment_date", "created_at"},
			{"description", "notes", "outcome"},
		},
	},
}

func SectionByKey(key SectionKey) (Section, bool) {
	for _, section := range Sections {
		if section.Key == key {
			return section, true
		}
	}
	return Section{}, false
}
