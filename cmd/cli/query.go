package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/anstrom/scanvault/internal/document"
	"github.com/anstrom/scanvault/internal/logging"
	"github.com/anstrom/scanvault/internal/query"
)

const maxTitleWidth = 60

// searchKind describes one search the CLI can run, locally or through the API.
type searchKind struct {
	endpoint  string
	param     string
	field     document.Field
	header    bool
	mode      query.HeaderMode
	paginated bool
}

var searchKinds = map[string]searchKind{
	"title":        {endpoint: "bytitle", param: "title", field: document.FieldTitle, paginated: true},
	"domain":       {endpoint: "bydomain", param: "domain", field: document.FieldDomain},
	"ip":           {endpoint: "byip", param: "ip", field: document.FieldIP},
	"port":         {endpoint: "byport", param: "port", field: document.FieldPort, paginated: true},
	"html":         {endpoint: "byhtml", param: "html", field: document.FieldResponseText, paginated: true},
	"hresponse":    {endpoint: "byhresponse", param: "hresponse", header: true, mode: query.HeaderValues, paginated: true},
	"hkeyresponse": {endpoint: "byhkeyresponse", param: "hkeyresponse", header: true, mode: query.HeaderKeys, paginated: true},
}

func searchKindNames() []string {
	names := make([]string, 0, len(searchKinds))
	for name := range searchKinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// rawBounds keeps from and to as typed so the server sees the same text.
type rawBounds struct {
	from string
	to   string
}

var (
	queryFrom   string
	queryTo     string
	queryFormat = outputTable
)

// queryCmd represents the query command.
var queryCmd = &cobra.Command{
	Use:   "query KIND TEXT",
	Short: "Search stored scan results",
	Long: fmt.Sprintf(`Search stored scan results. KIND is one of: %s.

Field searches match documents where any response record has the field
containing TEXT, ignoring case. Header searches return one result per matching
response header. title, port, html and the header searches honour --from and
--to.`, strings.Join(searchKindNames(), ", ")),
	Example: `  scanvault query title "login"
  scanvault query port 8443 --from 0 --to 20
  scanvault query hkeyresponse x-powered-by --output json
  scanvault query ip 10.0.0.1 --server http://scanvault.internal:5000`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: searchKindNames(),
	RunE:      runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVar(&queryFrom, "from", "", "index of the first result (paginated searches)")
	queryCmd.Flags().StringVar(&queryTo, "to", "", "index after the last result (paginated searches)")
	queryCmd.Flags().VarP(&queryFormat, "output", "o", "output format: table or json")
}

func runQuery(cmd *cobra.Command, args []string) error {
	kind, ok := searchKinds[args[0]]
	if !ok {
		return fmt.Errorf("unknown search %q, expected one of: %s", args[0], strings.Join(searchKindNames(), ", "))
	}
	bounds := rawBounds{from: queryFrom, to: queryTo}

	var page query.Page[query.Entry]
	if url := serverFlag(); url != "" {
		client, err := NewAPIClient(url)
		if err != nil {
			return err
		}
		page, err = client.Search(withContext(cmd), kind, args[1], bounds)
		if err != nil {
			return describeAPIError(err, "query")
		}
	} else {
		var err error
		page, err = searchLocal(cmd, kind, args[1], bounds)
		if err != nil {
			return err
		}
	}

	return printPage(cmd.OutOrStdout(), page, queryFormat)
}

func searchLocal(cmd *cobra.Command, kind searchKind, text string, bounds rawBounds) (query.Page[query.Entry], error) {
	var page query.Page[query.Entry]

	b, err := query.ParseBounds(bounds.from, bounds.to)
	if err != nil {
		return page, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return page, err
	}

	ctx := withContext(cmd)
	logger := logging.Default()
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return page, err
	}
	defer closeStore(st, logger)

	engine := query.NewEngine(st, logger)

	var matches []query.Entry
	if kind.header {
		matches, err = engine.ByHeader(ctx, kind.mode, text)
	} else {
		matches, err = engine.ByField(ctx, kind.field, text)
	}
	if err != nil {
		return page, err
	}

	if !kind.paginated {
		return query.Page[query.Entry]{Total: len(matches), Entries: matches}, nil
	}
	return query.Paginate(matches, b), nil
}

func printPage(w io.Writer, page query.Page[query.Entry], format outputFormat) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		return enc.Encode(page)
	}

	if len(page.Entries) == 0 {
		_, err := fmt.Fprintf(w, "No matching documents (total %d).\n", page.Total)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "IP", "Domain", "Port", "Title")
	for i, entry := range page.Entries {
		s := summarize(entry)
		if err := table.Append([]string{fmt.Sprintf("%d", i+1), s.ip, s.domain, s.port, truncate(s.title, maxTitleWidth)}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Showing %d of %d matching documents.\n", len(page.Entries), page.Total)
	return err
}

// entrySummary holds the first value found for each displayed field.
type entrySummary struct {
	ip     string
	domain string
	port   string
	title  string
}

// summarize picks display values from a document, preferring top-level
// keys and falling back to the response records in location order.
func summarize(entry query.Entry) entrySummary {
	var s entrySummary
	doc := document.New(entry)

	targets := []struct {
		field document.Field
		dst   *string
	}{
		{document.FieldIP, &s.ip},
		{document.FieldDomain, &s.domain},
		{document.FieldPort, &s.port},
		{document.FieldTitle, &s.title},
	}

	for _, t := range targets {
		if v, ok := entry[string(t.field)].(string); ok && v != "" {
			*t.dst = v
			continue
		}
	locations:
		for _, loc := range document.Locations {
			for _, rec := range doc.Response(loc).Sequence() {
				if v, ok := rec.Value(t.field); ok && v != "" {
					*t.dst = v
					break locations
				}
			}
		}
	}
	return s
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// outputFormat implements pflag.Value for --output.
type outputFormat string

var _ pflag.Value = (*outputFormat)(nil)

const (
	outputTable outputFormat = "table"
	outputJSON  outputFormat = "json"
)

func (f *outputFormat) String() string { return string(*f) }

func (f *outputFormat) Set(v string) error {
	switch outputFormat(strings.ToLower(v)) {
	case outputTable:
		*f = outputTable
	case outputJSON:
		*f = outputJSON
	default:
		return fmt.Errorf("must be one of: table, json")
	}
	return nil
}

func (f *outputFormat) Type() string { return "format" }
