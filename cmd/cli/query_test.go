package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anstrom/scanvault/internal/query"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		entry query.Entry
		want  entrySummary
	}{
		{
			name:  "top-level keys win",
			entry: query.Entry{"ip": "10.0.0.1", "http_responseForIP": map[string]any{"ip": "10.0.0.9", "port": "80", "title": "Index"}},
			want:  entrySummary{ip: "10.0.0.1", port: "80", title: "Index"},
		},
		{
			name: "first location with a value",
			entry: query.Entry{
				"https_responseForIP":         []any{map[string]any{"port": "443"}},
				"https_responseForDomainName": map[string]any{"domain": "a.example", "title": "A"},
			},
			want: entrySummary{domain: "a.example", port: "443", title: "A"},
		},
		{
			name:  "non-string values are skipped",
			entry: query.Entry{"ip": 7, "http_responseForIP": map[string]any{"port": 80}},
			want:  entrySummary{},
		},
		{
			name:  "empty document",
			entry: query.Entry{},
			want:  entrySummary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summarize(tt.entry))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a much longer title", 10, "a much ..."},
		{"ünïcödé títle", 8, "ünïcö..."},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := truncate(tt.in, tt.width); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    outputFormat
		wantErr bool
	}{
		{"table", outputTable, false},
		{"JSON", outputJSON, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f outputFormat
			err := f.Set(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && f != tt.want {
				t.Errorf("Set(%q) = %q, want %q", tt.in, f, tt.want)
			}
		})
	}
	assert.Equal(t, "format", new(outputFormat).Type())
}

func TestPrintPage(t *testing.T) {
	page := query.Page[query.Entry]{
		Total: 3,
		Entries: []query.Entry{
			{"ip": "10.0.0.1", "http_responseForIP": map[string]any{"port": "80", "title": "<b>Admin</b>"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printPage(&buf, page, outputTable))
	out := buf.String()
	assert.Contains(t, out, "10.0.0.1")
	assert.Contains(t, out, "<b>Admin</b>")
	assert.Contains(t, out, "Showing 1 of 3 matching documents.")

	buf.Reset()
	require.NoError(t, printPage(&buf, page, outputJSON))
	assert.Contains(t, buf.String(), `"total_entries": 3`)
	assert.Contains(t, buf.String(), "<b>Admin</b>")
	assert.True(t, strings.HasPrefix(buf.String(), "{\n    \""))
}

func TestSearchKinds(t *testing.T) {
	assert.Equal(t, []string{"domain", "hkeyresponse", "hresponse", "html", "ip", "port", "title"}, searchKindNames())

	for name, kind := range searchKinds {
		assert.Equal(t, "by"+name, kind.endpoint, name)
		assert.Equal(t, name, kind.param, name)
		assert.Equal(t, name != "ip" && name != "domain", kind.paginated, name)
	}
}
