// Package pipeline orchestrates one load-validate-normalize-filter
// pass over the backing dataset.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/conflictwatch/casemap/internal/domain"
	"github.com/conflictwatch/casemap/internal/observability"
	"github.com/conflictwatch/casemap/internal/repository"
)

// ErrSourceExists reports a refused sample write: a real dataset is
// already present and must not be clobbered.
var ErrSourceExists = errors.New("a data source already exists")

// TableLoader provides the raw dataset. The bool reports a cache hit.
type TableLoader interface {
	Load() (domain.Table, bool, error)
	ActivePath() string
	PreferredPath() string
	WriteSample() error
}

// Result is the product of one pipeline pass. Cases holds the
// filtered subset; everything else describes the unfiltered dataset
// so the interaction layer can populate its controls.
type Result struct {
	Cases     []domain.Case
	Issues    []domain.Issue
	TotalRows int

	Regions  []string
	Statuses []string
	YearMin  int
	YearMax  int

	Path        string
	GeneratedAt time.Time
}

// Service runs the pipeline. Each run owns its derived tables
// exclusively; nothing is mutated across runs except the load cache
// inside the repository.
type Service struct {
	repo    TableLoader
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Service with the given loader and observability.
func New(repo TableLoader, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once at least one pass has completed, or
// an error describing why the service is not yet ready.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("pipeline has not completed a pass yet")
	}
	return nil
}

// Run executes one synchronous pass: load, schema check, normalize,
// quality scan, filter. Each zero year bound in the filter is filled
// independently from the dataset defaults, so a caller may pin just
// one end of the range. Missing schema columns and unreadable files
// halt the pass; all row-level problems are absorbed into the issue
// list.
func (s *Service) Run(ctx context.Context, f domain.ViewFilter) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	start := time.Now()

	table, cached, err := s.repo.Load()
	if err != nil {
		s.observeFailure(err)
		return Result{}, err
	}
	if cached {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	if missing := domain.MissingColumns(table); len(missing) > 0 {
		s.metrics.RunsTotal.WithLabelValues("schema_error").Inc()
		return Result{}, &domain.SchemaError{Missing: missing}
	}

	cases := domain.Normalize(table)
	issues := domain.QualityIssues(cases)
	yearMin, yearMax := domain.YearBounds(cases)

	if f.YearMin == 0 {
		f.YearMin = yearMin
	}
	if f.YearMax == 0 {
		f.YearMax = yearMax
	}
	filtered := domain.Filter(cases, f)

	s.metrics.RowsLoaded.Set(float64(len(cases)))
	s.metrics.QualityIssues.Set(float64(len(issues)))
	s.metrics.FilteredRows.Observe(float64(len(filtered)))
	s.metrics.RunDuration.Observe(time.Since(start).Seconds())
	s.metrics.RunsTotal.WithLabelValues("ok").Inc()
	s.ready.Store(true)

	s.logger.Debug("pipeline pass complete",
		"rows", len(cases),
		"filtered", len(filtered),
		"issues", len(issues),
		"cached", cached,
	)

	return Result{
		Cases:       filtered,
		Issues:      issues,
		TotalRows:   len(cases),
		Regions:     domain.KnownRegions(cases),
		Statuses:    domain.KnownStatuses(cases),
		YearMin:     yearMin,
		YearMax:     yearMax,
		Path:        s.repo.ActivePath(),
		GeneratedAt: start.UTC(),
	}, nil
}

func (s *Service) observeFailure(err error) {
	if errors.Is(err, repository.ErrNoDataSource) {
		s.metrics.RunsTotal.WithLabelValues("no_source").Inc()
		return
	}
	s.metrics.RunsTotal.WithLabelValues("error").Inc()
	s.logger.Error("dataset load failed", "error", err)
}

// CreateSample writes the starter dataset. Without force it refuses
// when any data source already exists.
func (s *Service) CreateSample(force bool) error {
	if !force && s.repo.ActivePath() != "" {
		return ErrSourceExists
	}
	if err := s.repo.WriteSample(); err != nil {
		return err
	}
	s.metrics.SamplesWritten.Inc()
	s.logger.Info("sample dataset written", "path", s.repo.PreferredPath())
	return nil
}

// SamplePath reports where CreateSample writes.
func (s *Service) SamplePath() string {
	return s.repo.PreferredPath()
}
