// Package metrics provides the instrumentation surface of the service.
package metrics

import "time"

//go:generate mockgen -destination=mocks/mock_recorder.go -package=mocks github.com/anstrom/scanvault/internal/metrics Recorder

// Recorder records service metrics. It is implemented by PrometheusMetrics and
// by Nop, and mocked in tests.
type Recorder interface {
	// IncrementHTTPRequests counts a served request.
	IncrementHTTPRequests(method, path, status string)

	// RecordHTTPDuration records how long a request took.
	RecordHTTPDuration(method, path string, duration time.Duration)

	// RecordStoreOperation records a document store call and its outcome.
	RecordStoreOperation(backend, operation string, duration time.Duration, err error)

	// RecordQueryResults records the number of matches a query endpoint found
	// before pagination.
	RecordQueryResults(endpoint string, total int)

	// AddDocumentsInserted counts inserted documents.
	AddDocumentsInserted(backend string, count int)

	// AddDocumentsDeleted counts deleted documents.
	AddDocumentsDeleted(backend string, count int64)
}

// Ensure both implementations satisfy Recorder.
var (
	_ Recorder = (*PrometheusMetrics)(nil)
	_ Recorder = Nop{}
)

// Nop discards every measurement.
type Nop struct{}

func (Nop) IncrementHTTPRequests(string, string, string)              {}
func (Nop) RecordHTTPDuration(string, string, time.Duration)          {}
func (Nop) RecordStoreOperation(string, string, time.Duration, error) {}
func (Nop) RecordQueryResults(string, int)                            {}
func (Nop) AddDocumentsInserted(string, int)                          {}
func (Nop) AddDocumentsDeleted(string, int64)                         {}
