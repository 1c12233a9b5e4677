package domain

import (
	"sort"
	"strings"
	"time"
)

// Color is an RGB marker color, serialized as a [r,g,b] array the way
// marker layers expect it.
type Color [3]uint8

// statusColors maps the recognized status values to marker colors.
var statusColors = map[string]Color{
	"ongoing":    {220, 20, 60},  // crimson
	"escalating": {255, 140, 0},  // dark orange
	"at-risk":    {255, 215, 0},  // gold
}

// DefaultColor marks any status outside the recognized set, including
// empty. Cornflower blue.
var DefaultColor = Color{100, 149, 237}

// StatusColor maps a status string to its marker color. Total: every
// input, regardless of casing or novelty, gets exactly one color.
func StatusColor(status string) Color {
	if c, ok := statusColors[strings.ToLower(strings.TrimSpace(status))]; ok {
		return c
	}
	return DefaultColor
}

// Tooltip builds the HTML-ish hover string for one case. Components
// appear in fixed order with fixed separators; absent dates render as
// AbsentMarker.
func Tooltip(c Case) string {
	var b strings.Builder
	b.WriteString("<b>")
	b.WriteString(c.Name)
	b.WriteString("</b><br>")
	b.WriteString(c.Country)
	b.WriteString(" — ")
	b.WriteString(c.Region)
	b.WriteString("<br>Status: ")
	b.WriteString(c.Status)
	b.WriteString("<br>Targeted: ")
	b.WriteString(c.TargetedGroup)
	b.WriteString("<br>Perpetrators: ")
	b.WriteString(c.Perpetrators)
	b.WriteString("<br>Since: ")
	b.WriteString(tooltipDate(c.StartDate))
	b.WriteString("<br>Last verified: ")
	b.WriteString(tooltipDate(c.LastVerified))
	return b.String()
}

func tooltipDate(t *time.Time) string {
	if t == nil {
		return AbsentMarker
	}
	return t.Format("2006-01-02")
}

// MapRow is the minimal projection a marker layer needs.
type MapRow struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Color     Color   `json:"color"`
	Tooltip   string  `json:"tooltip"`
	Name      string  `json:"name"`
}

// MapRows projects cases down to plottable markers. This is the only
// stage in the pipeline that drops rows, and it does so only for the
// map path: rows with absent or out-of-range coordinates are skipped
// here but stay in the table and sources views.
func MapRows(cases []Case) []MapRow {
	rows := make([]MapRow, 0, len(cases))
	for _, c := range cases {
		if c.Latitude == nil || c.Longitude == nil {
			continue
		}
		if !coordsInRange(*c.Latitude, *c.Longitude) {
			continue
		}
		rows = append(rows, MapRow{
			Longitude: *c.Longitude,
			Latitude:  *c.Latitude,
			Color:     StatusColor(c.Status),
			Tooltip:   Tooltip(c),
			Name:      c.Name,
		})
	}
	return rows
}

// ViewState is the initial camera position for the map.
type ViewState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
}

// AverageView centers the camera on the mean marker position, or on a
// whole-world view when there are no markers.
func AverageView(rows []MapRow) ViewState {
	if len(rows) == 0 {
		return ViewState{Latitude: 20, Longitude: 0, Zoom: 1.5}
	}
	var lat, lon float64
	for _, r := range rows {
		lat += r.Latitude
		lon += r.Longitude
	}
	n := float64(len(rows))
	return ViewState{Latitude: lat / n, Longitude: lon / n, Zoom: 1.5}
}

// TableRow is the sortable-grid projection of a case. All cells are
// display strings; absent values are empty, never "0".
type TableRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Country       string `json:"country"`
	Region        string `json:"region"`
	Status        string `json:"status"`
	TargetedGroup string `json:"targeted_group"`
	Perpetrators  string `json:"perpetrators"`
	StartDate     string `json:"start_date"`
	LastVerified  string `json:"last_verified"`
	EstDeaths     string `json:"est_deaths"`
}

// TableRows projects cases into display rows sorted by region, then
// country, then name.
func TableRows(cases []Case) []TableRow {
	rows := make([]TableRow, 0, len(cases))
	for _, c := range cases {
		rows = append(rows, TableRow{
			ID:            c.ID,
			Name:          c.Name,
			Country:       c.Country,
			Region:        c.Region,
			Status:        c.Status,
			TargetedGroup: c.TargetedGroup,
			Perpetrators:  c.Perpetrators,
			StartDate:     DateCell(c.StartDate),
			LastVerified:  DateCell(c.LastVerified),
			EstDeaths:     FloatCell(c.EstDeaths),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Region != rows[j].Region {
			return rows[i].Region < rows[j].Region
		}
		if rows[i].Country != rows[j].Country {
			return rows[i].Country < rows[j].Country
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// SourceLink is one clickable reference for a case.
type SourceLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// SourceLinks splits the semicolon-delimited sources field into links.
// Blank entries are skipped, so a whitespace-only field yields zero
// links. Labels are the URL without its http(s) scheme prefix.
func SourceLinks(c Case) []SourceLink {
	var links []SourceLink
	for _, raw := range strings.Split(c.Sources, ";") {
		u := strings.TrimSpace(raw)
		if u == "" {
			continue
		}
		label := strings.TrimPrefix(u, "https://")
		label = strings.TrimPrefix(label, "http://")
		links = append(links, SourceLink{Label: label, URL: u})
	}
	return links
}
