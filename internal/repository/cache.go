package repository

import (
	"fmt"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/conflictwatch/casemap/internal/domain"
)

// CachedRepository memoizes Load results keyed by path and file
// modification time, so edits to the backing file surface on the next
// pass without a restart, and a sample write invalidates explicitly.
type CachedRepository struct {
	inner *CSVRepository
	cache *gocache.Cache
}

// NewCachedRepository wraps a CSVRepository with a TTL cache.
func NewCachedRepository(inner *CSVRepository, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Load returns the cached table when the backing file is unchanged.
// The bool reports whether the result came from cache.
func (r *CachedRepository) Load() (domain.Table, bool, error) {
	key := r.key()
	if key != "" {
		if v, ok := r.cache.Get(key); ok {
			return v.(domain.Table), true, nil
		}
	}

	t, err := r.inner.Load()
	if err != nil {
		return domain.Table{}, false, err
	}
	if key != "" {
		r.cache.Set(key, t, gocache.DefaultExpiration)
	}
	return t, false, nil
}

// key derives the cache key from the active path and its mtime; empty
// when there is no stat-able source, which bypasses the cache.
func (r *CachedRepository) key() string {
	path := r.inner.ActivePath()
	if path == "" {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s|%d", path, info.ModTime().UnixNano())
}

// WriteSample writes the starter dataset and drops all cached tables.
func (r *CachedRepository) WriteSample() error {
	if err := r.inner.WriteSample(); err != nil {
		return err
	}
	r.cache.Flush()
	return nil
}

// ActivePath reports the backing file currently in use, if any.
func (r *CachedRepository) ActivePath() string {
	return r.inner.ActivePath()
}

// PreferredPath returns the path WriteSample targets.
func (r *CachedRepository) PreferredPath() string {
	return r.inner.PreferredPath()
}
