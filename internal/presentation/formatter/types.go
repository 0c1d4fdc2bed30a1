package formatter

// Row source markers
const (
	SourceMeasured = "measured"
	SourceCarried  = "carried"
	SourceNone     = "none"
)

// Row is one rendered day of the timeline, most recent first.
type Row struct {
	Date     string   `json:"date"`
	Weight   *float64 `json:"weight"`
	BodyFat  *float64 `json:"bodyFat"`
	Source   string   `json:"source"`
	Entries  int      `json:"entries"`
	RecordID string   `json:"recordId,omitempty"`
}

// Report bundles the rows with the boundary context they were derived
// under, so formatters can surface it.
type Report struct {
	UserID      string `json:"userId,omitempty"`
	Timezone    string `json:"timezone"`
	DisplayEnd  string `json:"displayEnd"`
	MinDateKey  string `json:"minDateKey"`
	FullHistory bool   `json:"fullHistory"`
	Rows        []Row  `json:"rows"`
}

// Formatter renders a report to stdout.
type Formatter interface {
	Format(report *Report) error
}

// New returns the formatter for the named output format, defaulting to
// the table renderer.
func New(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	case "csv":
		return NewCSVFormatter()
	case "summary":
		return NewSummaryFormatter()
	default:
		return NewTableFormatter()
	}
}
