package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conflictwatch/casemap/internal/domain"
)

// sampleRows is a two-row starter dataset exercising every column,
// including a blank est_deaths.
var sampleRows = [][]string{
	{
		"EX-001", "Example Case", "Exampleland", "Example Region",
		"34", "71.5", "2024-01-01", "ongoing",
		"Example Security Forces", "Example Minority", "1200", "2025-11-01",
		"https://example.org/report; https://another.org/article",
		"Short placeholder summary describing the situation and citing sources.",
	},
	{
		"EX-002", "Escalating Violence", "Samplestan", "Asia",
		"35.7", "51.3", "2025-04-20", "escalating",
		"Paramilitary Group X", "Group Y", "", "2025-10-15",
		"https://ngo.example/briefing",
		"Risks increasing; monitor closely.",
	},
}

// WriteSample writes the starter dataset to the preferred path,
// creating parent directories as needed.
func (r *CSVRepository) WriteSample() error {
	if dir := filepath.Dir(r.preferred); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(r.preferred)
	if err != nil {
		return fmt.Errorf("create %s: %w", r.preferred, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(domain.RequiredColumns); err != nil {
		f.Close()
		return err
	}
	for _, row := range sampleRows {
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PreferredPath returns the path WriteSample targets.
func (r *CSVRepository) PreferredPath() string {
	return r.preferred
}
