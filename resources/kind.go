package resources

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind is a collection exposed by the practice api
type Kind string

const (
	Patients       Kind = "patients"
	Visits         Kind = "visits"
	Allergies      Kind = "allergies"
	Vitals         Kind = "vitals"
	MedicalNotes   Kind = "medical-notes"
	Medications    Kind = "medications"
	Documents      Kind = "documents"
	Treatments     Kind = "treatments"
	Clients        Kind = "clients"
	Appointments   Kind = "appointments"
	Receipts       Kind = "receipts"
	Communications Kind = "communications"
)

var Kinds = []Kind{
	Patients,
	Visits,
	Allergies,
	Vitals,
	MedicalNotes,
	Medications,
	Documents,
	Treatments,
	Clients,
	Appointments,
	Receipts,
	Communications,
}

func ParseKind(value string) (Kind, error) {
	value = strings.Trim(strings.ToLower(strings.TrimSpace(value)), "/")
	value = strings.ReplaceAll(value, "_", "-")
	for _, kind := range Kinds {
		if string(kind) == value {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown resource kind %q", value)
}

// Endpoint returns the collection path relative to the api base url
func (k Kind) Endpoint() string {
	return string(k) + "/"
}

// ItemEndpoint returns the path of a single item of the collection. The id is
// escaped so it always addresses a single path segment.
func (k Kind) ItemEndpoint(id string) string {
	return k.Endpoint() + url.PathEscape(id) + "/"
}
