// Package document models stored scan-result documents.
//
// A document is kept exactly as it was inserted (a JSON-compatible map) so that
// malformed or partial records survive a round trip. Typed access to the four
// response sub-records goes through ResponseField, which makes the
// single-record/sequence variance of the source data explicit.
package document

import (
	"encoding/json"
	"sort"
)

// IDField is the key of the store-level identifier inside a document body.
const IDField = "_id"

// HeadersKey is the key of the header mapping inside a sub-record.
const HeadersKey = "response_headers"

// Location names one of the four sub-record fields of a scan document.
type Location string

const (
	HTTPForIP          Location = "http_responseForIP"
	HTTPSForIP         Location = "https_responseForIP"
	HTTPForDomainName  Location = "http_responseForDomainName"
	HTTPSForDomainName Location = "https_responseForDomainName"
)

// Locations lists every sub-record location.
var Locations = []Location{HTTPForIP, HTTPSForIP, HTTPForDomainName, HTTPSForDomainName}

// Field is a searchable scalar attribute of a sub-record.
type Field string

const (
	FieldTitle        Field = "title"
	FieldDomain       Field = "domain"
	FieldIP           Field = "ip"
	FieldPort         Field = "port"
	FieldResponseText Field = "response_text"
)

var fields = map[string]Field{
	string(FieldTitle):        FieldTitle,
	string(FieldDomain):       FieldDomain,
	string(FieldIP):           FieldIP,
	string(FieldPort):         FieldPort,
	string(FieldResponseText): FieldResponseText,
}

// ParseField converts a field name into a Field.
func ParseField(name string) (Field, bool) {
	f, ok := fields[name]
	return f, ok
}

// Document is one stored scan target.
type Document struct {
	// ID is the store-assigned identifier. It is never serialized.
	ID string
	// Body is the document as inserted.
	Body map[string]any
}

// New wraps a decoded body.
func New(body map[string]any) Document {
	return Document{Body: body}
}

// FromMaps wraps a batch of decoded bodies.
func FromMaps(bodies []map[string]any) []Document {
	docs := make([]Document, len(bodies))
	for i, body := range bodies {
		docs[i] = New(body)
	}
	return docs
}

// WithoutID returns a shallow copy of the body with the identifier removed.
// The stored body is left untouched.
func (d Document) WithoutID() map[string]any {
	out := make(map[string]any, len(d.Body))
	for k, v := range d.Body {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the body without its identifier.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.WithoutID())
}

// Response decodes the sub-record stored at loc.
func (d Document) Response(loc Location) ResponseField {
	return decodeResponseField(d.Body[string(loc)])
}

// Kind tells which shape a ResponseField had in the stored document.
type Kind int

const (
	// KindAbsent means the location is missing or holds neither an object nor an array.
	KindAbsent Kind = iota
	// KindSingle means the location holds one nested object.
	KindSingle
	// KindMultiple means the location holds an array of nested objects.
	KindMultiple
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindMultiple:
		return "multiple"
	default:
		return "absent"
	}
}

// ResponseField is the tagged variant stored at a sub-record location.
type ResponseField struct {
	Kind    Kind
	Records []SubRecord
}

// Single returns the record when the field holds exactly one object.
func (f ResponseField) Single() (SubRecord, bool) {
	if f.Kind != KindSingle || len(f.Records) == 0 {
		return SubRecord{}, false
	}
	return f.Records[0], true
}

// Multiple returns the records when the field holds an array of objects.
func (f ResponseField) Multiple() ([]SubRecord, bool) {
	if f.Kind != KindMultiple {
		return nil, false
	}
	return f.Records, true
}

// Sequence returns the records of the field. A single object is returned as a
// one-element sequence; an absent field yields nil.
func (f ResponseField) Sequence() []SubRecord {
	switch f.Kind {
	case KindSingle, KindMultiple:
		return f.Records
	default:
		return nil
	}
}

// SubRecord is one HTTP(S) response observed for an IP or a domain name.
type SubRecord struct {
	values  map[Field]string
	Headers []Header
}

// Header is a single response header. HasValue is false when the stored value
// was not a string.
type Header struct {
	Name     string
	Value    string
	HasValue bool
}

// Value returns the string stored for field, if any.
func (r SubRecord) Value(field Field) (string, bool) {
	v, ok := r.values[field]
	return v, ok
}

func decodeResponseField(raw any) ResponseField {
	switch v := raw.(type) {
	case map[string]any:
		return ResponseField{Kind: KindSingle, Records: []SubRecord{decodeSubRecord(v)}}
	case []any:
		records := make([]SubRecord, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				records = append(records, decodeSubRecord(m))
			}
		}
		return ResponseField{Kind: KindMultiple, Records: records}
	default:
		return ResponseField{Kind: KindAbsent}
	}
}

func decodeSubRecord(m map[string]any) SubRecord {
	rec := SubRecord{values: make(map[Field]string)}
	for name, field := range fields {
		if s, ok := m[name].(string); ok {
			rec.values[field] = s
		}
	}

	hdrs, ok := m[HeadersKey].(map[string]any)
	if !ok {
		return rec
	}

	names := make([]string, 0, len(hdrs))
	for name := range hdrs {
		names = append(names, name)
	}
	sort.Strings(names)

	rec.Headers = make([]Header, 0, len(names))
	for _, name := range names {
		s, isString := hdrs[name].(string)
		rec.Headers = append(rec.Headers, Header{Name: name, Value: s, HasValue: isString})
	}
	return rec
}
