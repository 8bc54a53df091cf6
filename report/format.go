package report

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/vetcare/vetportal/resources"
)

const (
	NoRecords    = "No records"
	notAvailable = "N/A"
	separator    = " | "
)

type PatientInfo struct {
	Id        string `mapstructure:"id"`
	Name      string `mapstructure:"name"`
	Species   string `mapstructure:"species"`
	Breed     string `mapstructure:"breed"`
	Sex       string `mapstructure:"sex"`
	BirthDate string `mapstructure:"birth_date"`
	Photo     string `mapstructure:"photo"`
	PhotoURL  string `mapstructure:"photo_url"`
	Image     string `mapstructure:"image"`
}

func (p PatientInfo) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return p.Id
}

// PhotoRef returns the possibly relative url of the patient photo
func (p PatientInfo) PhotoRef() string {
	for _, ref := range []string{p.Photo, p.PhotoURL, p.Image} {
		if ref = strings.TrimSpace(ref); ref != "" {
			return ref
		}
	}
	return ""
}

type ClientInfo struct {
	Id        string `mapstructure:"id"`
	Name      string `mapstructure:"name"`
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
	Username  string `mapstructure:"username"`
	Email     string `mapstructure:"email"`
	Phone     string `mapstructure:"phone"`
	Address   string `mapstructure:"address"`
}

func (c ClientInfo) DisplayName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	if name := strings.TrimSpace(c.FirstName + " " + c.LastName); name != "" {
		return name
	}
	if c.Username != "" {
		return c.Username
	}
	return c.Id
}

func NewPatientInfo(record resources.Record) (PatientInfo, error) {
	info := PatientInfo{}
	err := decodeRecord(record, &info)
	return info, err
}

func NewClientInfo(record resources.Record) (ClientInfo, error) {
	info := ClientInfo{}
	if record == nil {
		return info, nil
	}
	err := decodeRecord(record, &info)
	return info, err
}

func decodeRecord(record resources.Record, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       embeddedIdHook,
		WeaklyTypedInput: true,
		Result:           result,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(map[string]any(record))
}

// embeddedIdHook decodes embedded objects into string fields as their id
func embeddedIdHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String || from.Kind() != reflect.Map {
		return data, nil
	}
	return resources.NormalizeID(data), nil
}

// SummaryLines returns the fixed lines of the patient and owner summary
func SummaryLines(patient PatientInfo, client *ClientInfo) []string {
	owner, email, phone := "Not available", notAvailable, notAvailable
	if client != nil {
		owner = orNotAvailable(client.DisplayName())
		email = orNotAvailable(client.Email)
		phone = orNotAvailable(client.Phone)
	}

	return []string{
		"Patient: " + orNotAvailable(patient.DisplayName()),
		"Patient ID: " + orNotAvailable(patient.Id),
		"Species: " + orNotAvailable(patient.Species),
		"Breed: " + orNotAvailable(patient.Breed),
		"Sex: " + orNotAvailable(patient.Sex),
		"Date of Birth: " + orNotAvailable(patient.BirthDate),
		"Owner: " + owner,
		"Owner Contact: " + email + separator + phone,
	}
}

// SectionTitle returns the title of the section with the number of records
func SectionTitle(section Section, count int) string {
	return section.Title + " (" + strconv.Itoa(count) + ")"
}

// FormatRecord formats a record of the section as a single line. Fields missing
// from the record are skipped, records without any known field fall back to their id.
func FormatRecord(section Section, record resources.Record) string {
	parts := make([]string, 0, len(section.Fields))
	for _, alternatives := range section.Fields {
		if value := record.FirstString(alternatives...); value != "" {
			parts = append(parts, labelFor(alternatives[0], value))
		}
	}
	if len(parts) == 0 {
		if id := record.ID(); id != "" {
			return "#" + id
		}
		return "-"
	}
	return strings.Join(parts, separator)
}

var units = map[string]string{
	"weight":           " kg",
	"temperature":      " °C",
	"heart_rate":       " bpm",
	"respiratory_rate": " rpm",
}

func labelFor(field, value string) string {
	if unit, ok := units[field]; ok {
		return value + unit
	}
	return value
}

func orNotAvailable(value string) string {
	if strings.TrimSpace(value) == "" {
		return notAvailable
	}
	return value
}
