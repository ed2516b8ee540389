package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniport/campus-api/internal/domain/model"
	mockdir "github.com/uniport/campus-api/internal/mocks/directory"
	"github.com/uniport/campus-api/internal/testutil"
)

func TestEnrichmentService_Enrich(t *testing.T) {
	ctx := context.Background()

	t.Run("merges directory fields onto the local record", func(t *testing.T) {
		person := testutil.NewPerson(model.KindStudent)
		directory := mockdir.NewMockDirectoryClient()
		directory.Users[person.ID] = testutil.DirectoryUserFor(person)

		svc := NewEnrichmentService(EnrichmentServiceOptions{Directory: directory})
		enriched := svc.Enrich(ctx, *person)

		assert.True(t, enriched.DirectoryResolved)
		require.NotNil(t, enriched.Username)
		assert.Equal(t, "ada.lovelace", *enriched.Username)
		assert.Equal(t, person.FirstName, *enriched.DirectoryFirst)
		assert.Equal(t, person.Email, *enriched.DirectoryEmail)
		// Local identity is untouched.
		assert.Equal(t, person.ID, enriched.ID)
		assert.Equal(t, person.Kind, enriched.Kind)
	})

	t.Run("no directory match leaves local fields only", func(t *testing.T) {
		person := testutil.NewPerson(model.KindEmployee)
		svc := NewEnrichmentService(EnrichmentServiceOptions{Directory: mockdir.NewMockDirectoryClient()})

		enriched := svc.Enrich(ctx, *person)

		assert.False(t, enriched.DirectoryResolved)
		assert.Nil(t, enriched.Username)
		assert.Equal(t, person.ID, enriched.ID)
		assert.Equal(t, person.Email, enriched.Email)
	})

	t.Run("first match wins when the directory returns several", func(t *testing.T) {
		person := testutil.NewPerson(model.KindPerson)
		directory := mockdir.NewMockDirectoryClient()
		directory.FindByIDFunc = func(_ context.Context, _ string) []model.DirectoryUser {
			return []model.DirectoryUser{
				{ID: person.ID, Username: "primary"},
				{ID: person.ID, Username: "shadow"},
			}
		}

		svc := NewEnrichmentService(EnrichmentServiceOptions{Directory: directory})
		enriched := svc.Enrich(ctx, *person)

		require.NotNil(t, enriched.Username)
		assert.Equal(t, "primary", *enriched.Username)
	})
}

func TestEnrichmentService_EnrichAll(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves input order", func(t *testing.T) {
		persons := make([]model.Person, 20)
		directory := mockdir.NewMockDirectoryClient()
		for i := range persons {
			persons[i] = *testutil.NewPerson(model.KindStudent)
			if i%2 == 0 {
				directory.Users[persons[i].ID] = testutil.DirectoryUserFor(&persons[i])
			}
		}

		svc := NewEnrichmentService(EnrichmentServiceOptions{Directory: directory, MaxConcurrency: 4})
		out := svc.EnrichAll(ctx, persons)

		require.Len(t, out, len(persons))
		for i := range persons {
			assert.Equal(t, persons[i].ID, out[i].ID)
			assert.Equal(t, i%2 == 0, out[i].DirectoryResolved)
		}
	})

	t.Run("one failing lookup leaves only that record unenriched", func(t *testing.T) {
		persons := []model.Person{
			*testutil.NewPerson(model.KindStudent),
			*testutil.NewPerson(model.KindEmployee),
			*testutil.NewPerson(model.KindLecturer),
		}
		directory := mockdir.NewMockDirectoryClient()
		directory.Users[persons[0].ID] = testutil.DirectoryUserFor(&persons[0])
		directory.Users[persons[2].ID] = testutil.DirectoryUserFor(&persons[2])
		broken := persons[1].ID
		directory.FindByIDFunc = func(_ context.Context, id string) []model.DirectoryUser {
			if id == broken {
				return nil
			}
			if u, ok := directory.Users[id]; ok {
				return []model.DirectoryUser{u}
			}
			return nil
		}

		svc := NewEnrichmentService(EnrichmentServiceOptions{Directory: directory})
		out := svc.EnrichAll(ctx, persons)

		require.Len(t, out, 3)
		assert.True(t, out[0].DirectoryResolved)
		assert.False(t, out[1].DirectoryResolved)
		assert.True(t, out[2].DirectoryResolved)
	})

	t.Run("empty batch", func(t *testing.T) {
		svc := NewEnrichmentService(EnrichmentServiceOptions{Directory: mockdir.NewMockDirectoryClient()})
		assert.Empty(t, svc.EnrichAll(ctx, nil))
	})
}

func TestEnrichmentService_Cache(t *testing.T) {
	ctx := context.Background()

	t.Run("second lookup is served from cache", func(t *testing.T) {
		person := testutil.NewPerson(model.KindStudent)
		directory := mockdir.NewMockDirectoryClient()
		directory.Users[person.ID] = testutil.DirectoryUserFor(person)
		cache := mockdir.NewMemoryCacheRepo()

		svc := NewEnrichmentService(EnrichmentServiceOptions{
			Directory: directory,
			Cache:     cache,
			CacheTTL:  30 * time.Second,
		})

		first := svc.Enrich(ctx, *person)
		second := svc.Enrich(ctx, *person)

		assert.True(t, first.DirectoryResolved)
		assert.True(t, second.DirectoryResolved)
		assert.Len(t, directory.FindByIDCalls(), 1)
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("empty lookups are never cached", func(t *testing.T) {
		person := testutil.NewPerson(model.KindEmployee)
		directory := mockdir.NewMockDirectoryClient()
		cache := mockdir.NewMemoryCacheRepo()

		svc := NewEnrichmentService(EnrichmentServiceOptions{
			Directory: directory,
			Cache:     cache,
			CacheTTL:  30 * time.Second,
		})

		svc.Enrich(ctx, *person)
		svc.Enrich(ctx, *person)

		assert.Equal(t, 0, cache.Len())
		assert.Len(t, directory.FindByIDCalls(), 2)
	})

	t.Run("zero TTL disables cache writes", func(t *testing.T) {
		person := testutil.NewPerson(model.KindStudent)
		directory := mockdir.NewMockDirectoryClient()
		directory.Users[person.ID] = testutil.DirectoryUserFor(person)
		cache := mockdir.NewMemoryCacheRepo()

		svc := NewEnrichmentService(EnrichmentServiceOptions{
			Directory: directory,
			Cache:     cache,
		})

		svc.Enrich(ctx, *person)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("corrupt cache entry degrades to a directory lookup", func(t *testing.T) {
		person := testutil.NewPerson(model.KindStudent)
		directory := mockdir.NewMockDirectoryClient()
		directory.Users[person.ID] = testutil.DirectoryUserFor(person)
		cache := mockdir.NewMemoryCacheRepo()
		require.NoError(t, cache.Set(ctx, "directory:user:"+person.ID, []byte("{{{"), time.Minute))

		svc := NewEnrichmentService(EnrichmentServiceOptions{
			Directory: directory,
			Cache:     cache,
			CacheTTL:  30 * time.Second,
		})

		enriched := svc.Enrich(ctx, *person)
		assert.True(t, enriched.DirectoryResolved)
		assert.Len(t, directory.FindByIDCalls(), 1)
	})

	t.Run("cache errors degrade to a directory lookup", func(t *testing.T) {
		person := testutil.NewPerson(model.KindStudent)
		directory := mockdir.NewMockDirectoryClient()
		directory.Users[person.ID] = testutil.DirectoryUserFor(person)

		svc := NewEnrichmentService(EnrichmentServiceOptions{
			Directory: directory,
			Cache:     failingCache{},
			CacheTTL:  30 * time.Second,
		})

		enriched := svc.Enrich(ctx, *person)
		assert.True(t, enriched.DirectoryResolved)
	})
}

func TestEnrichmentService_ConcurrencyBound(t *testing.T) {
	var inFlight, peak atomic.Int64
	directory := mockdir.NewMockDirectoryClient()
	directory.FindByIDFunc = func(_ context.Context, _ string) []model.DirectoryUser {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	}

	svc := NewEnrichmentService(EnrichmentServiceOptions{Directory: directory, MaxConcurrency: 3})

	persons := make([]model.Person, 30)
	for i := range persons {
		persons[i] = *testutil.NewPerson(model.KindStudent)
	}
	svc.EnrichAll(context.Background(), persons)

	assert.LessOrEqual(t, peak.Load(), int64(3))
}

// failingCache simulates a cache backend that errors on every operation.
type failingCache struct{}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache write failed")
}

func (failingCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("cache read failed")
}

func (failingCache) Delete(context.Context, string) (bool, error) {
	return false, errors.New("cache delete failed")
}
