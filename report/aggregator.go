package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc"
	"github.com/vetcare/vetportal/client"
	errs "github.com/vetcare/vetportal/errors"
	"github.com/vetcare/vetportal/resources"
	"go.uber.org/zap"
)

// Getter is the subset of the http client used to load report data
type Getter interface {
	Get(ctx context.Context, path string, opts ...client.RequestOption) (*client.Response, error)
}

var _ Getter = &client.Client{}

// Bundle is the data of a single patient report
type Bundle struct {
	Patient resources.Record
	// Client is nil when the owner of the patient couldn't be resolved
	Client   resources.Record
	Sections map[SectionKey][]resources.Record
}

func (b *Bundle) Section(key SectionKey) []resources.Record {
	if b == nil || b.Sections == nil {
		return nil
	}
	return b.Sections[key]
}

type Aggregator struct {
	logger *zap.SugaredLogger
}

func NewAggregator(logger *zap.SugaredLogger) *Aggregator {
	return &Aggregator{logger: logger}
}

type fetchResult struct {
	kind    resources.Kind
	records []resources.Record
	err     error
}

// LoadPatientReportData fetches the patients, the clients and every report section in parallel
// and filters the sections down to the records of the patient. A failing endpoint results in an
// empty collection. Only a missing patient or an expired session fail the aggregation.
func (a *Aggregator) LoadPatientReportData(ctx context.Context, getter Getter, patientId string) (*Bundle, error) {
	patientId = resources.NormalizeID(patientId)

	kinds := []resources.Kind{resources.Patients, resources.Clients}
	for _, section := range Sections {
		kinds = append(kinds, section.Kind)
	}

	results := make([]fetchResult, len(kinds))
	var wg conc.WaitGroup
	for i, kind := range kinds {
		wg.Go(func() {
			records, err := a.fetch(ctx, getter, kind)
			results[i] = fetchResult{kind: kind, records: records, err: err}
		})
	}
	wg.Wait()

	collections := make(map[resources.Kind][]resources.Record, len(results))
	for _, result := range results {
		if errors.Is(result.err, errs.SessionExpired) {
			return nil, result.err
		}
		if result.err != nil {
			a.logger.Warnw("unable to load report data", "kind", result.kind, "patientId", patientId, zap.Error(result.err))
			collections[result.kind] = []resources.Record{}
			continue
		}
		collections[result.kind] = result.records
	}

	patient := findById(collections[resources.Patients], patientId)
	if patient == nil {
		return nil, fmt.Errorf("%w: %s", errs.PatientNotFound, patientId)
	}

	bundle := &Bundle{
		Patient:  patient,
		Client:   findById(collections[resources.Clients], patient.ClientRef()),
		Sections: make(map[SectionKey][]resources.Record, len(Sections)),
	}

	visits := indexById(collections[resources.Visits])
	for _, section := range Sections {
		bundle.Sections[section.Key] = FilterByPatient(collections[section.Kind], patientId, visits)
	}

	return bundle, nil
}

func (a *Aggregator) fetch(ctx context.Context, getter Getter, kind resources.Kind) ([]resources.Record, error) {
	res, err := getter.Get(ctx, kind.Endpoint())
	if err != nil {
		return nil, err
	}
	return resources.DecodeList(res.Body)
}

// FilterByPatient returns the records referencing the patient, preserving their order.
// Records without a direct patient reference are matched by the patient of their visit.
// Visits referenced only by id are looked up in visits.
func FilterByPatient(records []resources.Record, patientId string, visits map[string]resources.Record) []resources.Record {
	filtered := make([]resources.Record, 0)
	for _, record := range records {
		if id, ok := PatientOf(record, visits); ok && id == patientId {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// PatientOf resolves the id of the patient a record belongs to
func PatientOf(record resources.Record, visits map[string]resources.Record) (string, bool) {
	if id, ok := record.PatientRef(); ok && id != "" {
		return id, true
	}

	visitId, visit, ok := record.VisitRef()
	if !ok {
		return "", false
	}
	if visit == nil {
		visit = visits[visitId]
	}
	if visit == nil {
		return "", false
	}

	id, ok := visit.PatientRef()
	return id, ok && id != ""
}

func findById(records []resources.Record, id string) resources.Record {
	if id == "" {
		return nil
	}
	for _, record := range records {
		if record.ID() == id {
			return record
		}
	}
	return nil
}

func indexById(records []resources.Record) map[string]resources.Record {
	index := make(map[string]resources.Record, len(records))
	for _, record := range records {
		if id := record.ID(); id != "" {
			if _, ok := index[id]; !ok {
				index[id] = record
			}
		}
	}
	return index
}
