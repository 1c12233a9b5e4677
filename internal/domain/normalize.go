package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Normalize coerces a raw table into typed cases. It is pure and
// total: no row is ever dropped or rejected here, and a field that
// fails to parse becomes absent rather than zero or an error.
func Normalize(t Table) []Case {
	cases := make([]Case, 0, len(t.Rows))
	for _, r := range t.Rows {
		cases = append(cases, normalizeRow(r))
	}
	return cases
}

func normalizeRow(r Row) Case {
	return Case{
		ID:            field(r, "id"),
		Name:          field(r, "name"),
		Country:       field(r, "country"),
		Region:        field(r, "region"),
		Latitude:      parseOptionalFloat(r["latitude"]),
		Longitude:     parseOptionalFloat(r["longitude"]),
		StartDate:     parseOptionalDate(r["start_date"]),
		Status:        field(r, "status"),
		Perpetrators:  field(r, "perpetrators"),
		TargetedGroup: field(r, "targeted_group"),
		EstDeaths:     parseOptionalFloat(r["est_deaths"]),
		LastVerified:  parseOptionalDate(r["last_verified"]),
		Sources:       field(r, "sources"),
		Summary:       field(r, "summary"),
	}
}

func field(r Row, name string) string {
	return strings.TrimSpace(r[name])
}

// parseOptionalFloat parses a string as float64, returning nil on
// failure. Nil matters: a zero coordinate would falsely plot at the
// equator or prime meridian.
func parseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseOptionalDate parses an ISO-like date string permissively and
// truncates it to day precision in UTC. Unparsable input (including
// impossible calendar dates) becomes nil.
func parseOptionalDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// formatFloat is the inverse of parseOptionalFloat for present values:
// the shortest decimal form that round-trips, so normalization is a
// fixed point across export and reload.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
