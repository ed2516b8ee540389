package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/uniport/campus-api/internal/domain/model"
	"github.com/uniport/campus-api/internal/ports"
	"golang.org/x/sync/errgroup"
)

const defaultEnrichConcurrency = 8

// EnrichmentServiceOptions groups dependencies for EnrichmentService.
type EnrichmentServiceOptions struct {
	Directory ports.DirectoryClient

	// Cache is optional. When set, non-empty directory lookups are kept for
	// CacheTTL to absorb read bursts; empty results and failures are never
	// cached.
	Cache    ports.CacheRepository
	CacheTTL time.Duration

	// MaxConcurrency bounds parallel lookups during batch enrichment.
	MaxConcurrency int

	Logger *slog.Logger // Optional, defaults to slog.Default()
}

// EnrichmentService merges directory identity fields onto local person
// records. Enrichment is strictly best-effort: a record is always returned,
// and a directory failure only means the identity fields stay unset.
type EnrichmentService struct {
	directory ports.DirectoryClient
	cache     ports.CacheRepository
	cacheTTL  time.Duration
	maxConc   int
	logger    *slog.Logger
}

// NewEnrichmentService constructs a new EnrichmentService.
func NewEnrichmentService(opts EnrichmentServiceOptions) *EnrichmentService {
	maxConc := opts.MaxConcurrency
	if maxConc < 1 {
		maxConc = defaultEnrichConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrichmentService{
		directory: opts.Directory,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		maxConc:   maxConc,
		logger:    logger,
	}
}

// Enrich returns a view of the person with directory identity fields
// merged in. The local record is never mutated and its ID never changes;
// when the directory has no match or cannot be reached the view carries
// the local fields only.
func (s *EnrichmentService) Enrich(ctx context.Context, person model.Person) model.EnrichedPerson {
	view := model.EnrichedPerson{Person: person}

	users := s.lookupByID(ctx, person.ID)
	if len(users) == 0 {
		return view
	}

	u := users[0]
	view.Username = &u.Username
	view.DirectoryFirst = &u.FirstName
	view.DirectoryLast = &u.LastName
	view.DirectoryEmail = &u.Email
	view.DirectoryResolved = true
	return view
}

// EnrichAll enriches a batch with bounded concurrent fan-out. Each record
// is enriched independently, so one failed lookup leaves only that record
// unenriched; the output preserves input order.
func (s *EnrichmentService) EnrichAll(ctx context.Context, persons []model.Person) []model.EnrichedPerson {
	out := make([]model.EnrichedPerson, len(persons))

	var g errgroup.Group
	g.SetLimit(s.maxConc)
	for i, p := range persons {
		g.Go(func() error {
			out[i] = s.Enrich(ctx, p)
			return nil
		})
	}
	// Enrich never fails, so the group never returns an error.
	_ = g.Wait()

	return out
}

// lookupByID fetches directory users for the shared identifier, consulting
// the cache first when one is wired. Cache defects degrade to a direct
// directory lookup.
func (s *EnrichmentService) lookupByID(ctx context.Context, id string) []model.DirectoryUser {
	if id == "" {
		return nil
	}

	key := directoryUserCacheKey(id)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "directory cache read failed", "error", err)
		} else if len(cached) > 0 {
			var users []model.DirectoryUser
			if err := json.Unmarshal(cached, &users); err == nil && len(users) > 0 {
				return users
			}
		}
	}

	users := s.directory.FindByID(ctx, id)

	if s.cache != nil && s.cacheTTL > 0 && len(users) > 0 {
		if payload, err := json.Marshal(users); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
				s.logger.WarnContext(ctx, "directory cache write failed", "error", err)
			}
		}
	}

	return users
}

func directoryUserCacheKey(id string) string {
	return "directory:user:" + id
}
