package cleanup

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/airx/beds/server/hub/internal/auth"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/repository"
	"github.com/airx/beds/server/hub/internal/repository/files"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newStore(t *testing.T) *files.Store {
	t.Helper()
	store := files.New(t.TempDir(), repository.Options{
		Verifier: auth.BcryptVerifier{Cost: bcrypt.MinCost},
		Clock:    clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
		Seed:     repository.SeedConfig{DemoCustomer: true, DemoSensor: true},
	})
	require.NoError(t, store.Init(context.Background()))
	return store
}

type recorder struct {
	mu  sync.Mutex
	ids map[string][]string
}

func (r *recorder) handler(event string) func(string) {
	return func(id string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.ids[event] = append(r.ids[event], id)
	}
}

func (r *recorder) got(event string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids[event]...)
}

func TestDeleteSiteCascades(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := New(store, store)

	rec := &recorder{ids: map[string][]string{}}
	svc.OnCleanup(EventSiteDeleted, rec.handler(EventSiteDeleted))
	svc.OnCleanup(EventTelemetryDeleted, rec.handler(EventTelemetryDeleted))

	sensors, err := store.ListSensorsBySite(ctx, repository.SampleSiteID)
	require.NoError(t, err)
	require.Len(t, sensors, 1)
	_, err = store.AddMeasurement(ctx, sensors[0].ID, models.NewMetrics(0.05, 0.01, nil))
	require.NoError(t, err)

	deleted, err := svc.DeleteSite(ctx, repository.SampleSiteID)
	require.NoError(t, err)
	assert.True(t, deleted)

	site, err := store.GetSite(ctx, repository.SampleSiteID)
	require.NoError(t, err)
	assert.Nil(t, site)

	customer, err := store.GetUser(ctx, repository.DemoCustomerID)
	require.NoError(t, err)
	assert.Empty(t, customer.SiteIDs)

	left, err := store.ListSensorsBySite(ctx, repository.SampleSiteID)
	require.NoError(t, err)
	assert.Empty(t, left)
	readings, err := store.LatestMeasurementsForSite(ctx, repository.SampleSiteID, 10)
	require.NoError(t, err)
	assert.Empty(t, readings)

	assert.Eventually(t, func() bool {
		return len(rec.got(EventSiteDeleted)) == 1 && len(rec.got(EventTelemetryDeleted)) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{repository.SampleSiteID}, rec.got(EventSiteDeleted))
}

func TestDeleteSiteMissing(t *testing.T) {
	store := newStore(t)
	svc := New(store, store)

	fired := make(chan string, 1)
	svc.OnCleanup(EventSiteDeleted, func(id string) { fired <- id })

	deleted, err := svc.DeleteSite(context.Background(), "site-missing")
	require.NoError(t, err)
	assert.False(t, deleted)

	select {
	case id := <-fired:
		t.Fatalf("unexpected event for %s", id)
	case <-time.After(50 * time.Millisecond):
	}
}
