package resources

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

const (
	fieldId      = "id"
	fieldPatient = "patient"
	fieldVisit   = "visit"
	fieldClient  = "client"
)

// Record is a resource as returned by the backend. Fields are opaque except for
// the id and the patient/visit references used to link records to a patient.
type Record map[string]any

func (r Record) ID() string {
	return NormalizeID(r[fieldId])
}

// String returns the field formatted as a string, or an empty string if it's absent
func (r Record) String(key string) string {
	value, ok := r[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case map[string]any, Record:
		return NormalizeID(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FirstString returns the first non-empty field out of keys
func (r Record) FirstString(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(r.String(key)); value != "" {
			return value
		}
	}
	return ""
}

// PatientRef returns the normalized id of the patient referenced directly by the record
func (r Record) PatientRef() (string, bool) {
	ref, ok := r[fieldPatient]
	if !ok || ref == nil {
		return "", false
	}
	return NormalizeID(ref), true
}

// VisitRef returns the visit referenced by the record. The visit is returned
// only when it is embedded in the record, otherwise only the id is known.
func (r Record) VisitRef() (string, Record, bool) {
	ref, ok := r[fieldVisit]
	if !ok || ref == nil {
		return "", nil, false
	}
	if visit, ok := AsRecord(ref); ok {
		return visit.ID(), visit, true
	}
	return NormalizeID(ref), nil, true
}

func (r Record) ClientRef() string {
	return NormalizeID(r[fieldClient])
}

// AsRecord converts embedded objects to records
func AsRecord(value any) (Record, bool) {
	switch v := value.(type) {
	case Record:
		return v, true
	case map[string]any:
		return Record(v), true
	default:
		return nil, false
	}
}

// NormalizeID converts an id (or an embedded object with an id) to its string form,
// so ids received as numbers and strings can be compared.
func NormalizeID(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case json.Number:
		return v.String()
	case Record:
		return NormalizeID(v[fieldId])
	case map[string]any:
		return NormalizeID(v[fieldId])
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
