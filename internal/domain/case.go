package domain

import "time"

// Row is one raw CSV row, keyed by lowercased, trimmed column name.
// Cells are untyped strings exactly as read from the file.
type Row map[string]string

// Table is the raw loaded dataset before any coercion.
type Table struct {
	Columns []string
	Rows    []Row
}

// Case is the typed representation of one incident record.
//
// Optional fields are pointers so that "absent" stays distinct from
// zero: a coordinate that failed to parse must not plot at the
// equator, and a blank est_deaths must not display as 0. String
// fields are plain trimmed strings; they feed display text directly,
// so an unsupplied value is simply empty.
type Case struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Country       string     `json:"country"`
	Region        string     `json:"region"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	StartDate     *time.Time `json:"start_date"`
	Status        string     `json:"status"`
	Perpetrators  string     `json:"perpetrators"`
	TargetedGroup string     `json:"targeted_group"`
	EstDeaths     *float64   `json:"est_deaths"`
	LastVerified  *time.Time `json:"last_verified"`
	Sources       string     `json:"sources"`
	Summary       string     `json:"summary"`
}

// AbsentMarker is the display stand-in for values that were not
// supplied or failed to parse. Tooltips use it for dates; table cells
// and CSV export render absent values as empty strings instead.
const AbsentMarker = "n/a"

// DateCell renders a date for table cells and CSV export: ISO
// yyyy-mm-dd, or an empty cell when absent.
func DateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// FloatCell renders an optional number for table cells and CSV export,
// using the shortest exact decimal form. Absent values become empty
// cells, never "0".
func FloatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
