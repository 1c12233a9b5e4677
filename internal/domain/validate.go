package domain

import "strings"

// RequiredColumns is the exact input schema, in canonical order. Every
// downstream stage assumes all fourteen fields are addressable, so a
// table missing any of them halts the pipeline before rendering.
var RequiredColumns = []string{
	"id", "name", "country", "region", "latitude", "longitude",
	"start_date", "status", "perpetrators", "targeted_group",
	"est_deaths", "last_verified", "sources", "summary",
}

// SchemaError reports required columns missing from a loaded table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// MissingColumns returns the required column names absent from the
// table header, in schema order. Empty means the table is addressable.
func MissingColumns(t Table) []string {
	have := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		have[c] = true
	}
	var missing []string
	for _, c := range RequiredColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// Quality-issue reasons. Coordinate reasons are mutually exclusive per
// row; missing sources can combine with either.
const (
	ReasonCoordsMissing    = "lat/lon missing or invalid"
	ReasonCoordsOutOfRange = "lat/lon out of range"
	ReasonMissingSources   = "missing sources"
)

// Issue flags one row with one or more data-quality reasons. Issues
// are purely diagnostic: they never remove or alter rows.
type Issue struct {
	Row     int      `json:"row"`
	Reasons []string `json:"reasons"`
}

// Message joins the row's reasons into a single display string.
func (i Issue) Message() string {
	return strings.Join(i.Reasons, "; ")
}

// QualityIssues scans every normalized row independently and returns
// an ordered list of flagged rows. Rows with no issues are omitted.
func QualityIssues(cases []Case) []Issue {
	var issues []Issue
	for idx, c := range cases {
		var reasons []string
		switch {
		case c.Latitude == nil || c.Longitude == nil:
			reasons = append(reasons, ReasonCoordsMissing)
		case !coordsInRange(*c.Latitude, *c.Longitude):
			reasons = append(reasons, ReasonCoordsOutOfRange)
		}
		if strings.TrimSpace(c.Sources) == "" {
			reasons = append(reasons, ReasonMissingSources)
		}
		if len(reasons) > 0 {
			issues = append(issues, Issue{Row: idx, Reasons: reasons})
		}
	}
	return issues
}

func coordsInRange(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
