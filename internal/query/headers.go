package query

import "github.com/anstrom/scanvault/internal/document"

// HeaderMode selects which side of a response header is searched.
type HeaderMode int

const (
	// HeaderValues matches against header values.
	HeaderValues HeaderMode = iota
	// HeaderKeys matches against header names.
	HeaderKeys
)

func (m HeaderMode) String() string {
	if m == HeaderKeys {
		return "keys"
	}
	return "values"
}

// singleLocations are scanned first, in this order, and only in their
// single-record form.
var singleLocations = []document.Location{
	document.HTTPForDomainName,
	document.HTTPSForDomainName,
	document.HTTPSForIP,
}

// ScanHeaders returns the documents whose response headers contain text,
// ignoring case. The three single-record locations of every document are
// scanned before the http_responseForIP records of any document, and a
// document is appended once per matching header. http_responseForIP is only
// read in its array form; a single object there contributes nothing.
func ScanHeaders(docs []document.Document, mode HeaderMode, text string) []document.Document {
	var matches []document.Document

	for _, doc := range docs {
		for _, loc := range singleLocations {
			if rec, ok := doc.Response(loc).Single(); ok {
				matches = appendMatches(matches, doc, rec, mode, text)
			}
		}
	}

	for _, doc := range docs {
		records, ok := doc.Response(document.HTTPForIP).Multiple()
		if !ok {
			continue
		}
		for _, rec := range records {
			matches = appendMatches(matches, doc, rec, mode, text)
		}
	}

	return matches
}

func appendMatches(matches []document.Document, doc document.Document, rec document.SubRecord, mode HeaderMode, text string) []document.Document {
	for _, h := range rec.Headers {
		if headerMatches(h, mode, text) {
			matches = append(matches, doc)
		}
	}
	return matches
}

func headerMatches(h document.Header, mode HeaderMode, text string) bool {
	if mode == HeaderKeys {
		return document.ContainsFold(h.Name, text)
	}
	return h.HasValue && document.ContainsFold(h.Value, text)
}
