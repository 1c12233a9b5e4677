package httpapi

import (
	"time"

	"github.com/conflictwatch/casemap/internal/adapter/tiles"
	"github.com/conflictwatch/casemap/internal/domain"
	"github.com/conflictwatch/casemap/internal/pipeline"
)

// filterQuery is the interactive surface contract: region and status
// multi-selects, a year range, and the label toggle. Each omitted year
// means "use the dataset default" for that bound, so the range order
// is only checked when both are supplied.
type filterQuery struct {
	Regions  []string `form:"regions"`
	Statuses []string `form:"statuses"`
	YearMin  int      `form:"year_min" validate:"min=0"`
	YearMax  int      `form:"year_max" validate:"min=0"`
	Labels   bool     `form:"labels"`
}

func (q filterQuery) toFilter() domain.ViewFilter {
	return domain.ViewFilter{
		Regions:    q.Regions,
		Statuses:   q.Statuses,
		YearMin:    q.YearMin,
		YearMax:    q.YearMax,
		ShowLabels: q.Labels,
	}
}

type issueResponse struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type casesResponse struct {
	Cases  []domain.TableRow `json:"cases"`
	Total  int               `json:"total"`
	Issues []issueResponse   `json:"issues"`
}

type mapResponse struct {
	Style      tiles.Style      `json:"style"`
	View       domain.ViewState `json:"view"`
	ShowLabels bool             `json:"show_labels"`
	Markers    []domain.MapRow  `json:"markers"`
}

type sourcesEntry struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Links   []domain.SourceLink `json:"links"`
	Summary string              `json:"summary,omitempty"`
}

type metaResponse struct {
	Regions     []string  `json:"regions"`
	Statuses    []string  `json:"statuses"`
	YearMin     int       `json:"year_min"`
	YearMax     int       `json:"year_max"`
	Path        string    `json:"path,omitempty"`
	IssueCount  int       `json:"issue_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

func toIssueResponses(issues []domain.Issue) []issueResponse {
	out := make([]issueResponse, 0, len(issues))
	for _, i := range issues {
		out = append(out, issueResponse{Row: i.Row, Message: i.Message()})
	}
	return out
}

func toSourcesEntries(cases []domain.Case) []sourcesEntry {
	out := make([]sourcesEntry, 0, len(cases))
	for _, c := range cases {
		out = append(out, sourcesEntry{
			ID:      c.ID,
			Name:    c.Name,
			Links:   domain.SourceLinks(c),
			Summary: c.Summary,
		})
	}
	return out
}

func toMetaResponse(res pipeline.Result) metaResponse {
	return metaResponse{
		Regions:     res.Regions,
		Statuses:    res.Statuses,
		YearMin:     res.YearMin,
		YearMax:     res.YearMax,
		Path:        res.Path,
		IssueCount:  len(res.Issues),
		GeneratedAt: res.GeneratedAt,
	}
}
