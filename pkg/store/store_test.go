package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-modelcard/pkg/card"
)

func steppingClock() func() time.Time {
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), MemoryPath, WithClock(steppingClock()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func namedCard(name, overview string) *card.ModelCard {
	c := card.New()
	d := c.EnsureModelDetails()
	d.Name = card.Some(name)
	if overview != "" {
		d.Overview = card.Some(overview)
	}
	return c
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	c := namedCard("census", "income model")
	c.EnsureConsiderations().Limitations = []card.Consideration{}

	a, err := s.Put(ctx, "", c)
	require.NoError(t, err)
	assert.Equal(t, "census", a.Name)
	assert.Equal(t, "0.0.2", a.SchemaVersion)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 1, 0, time.UTC), a.CreatedAt)

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, a.CreatedAt, got.CreatedAt)
	assert.True(t, got.Card.Equal(c), "stored card differs from input")

	c.ModelDetails.Name = card.Some("mutated")
	assert.Equal(t, "census", a.Card.ModelDetails.Name.Value(), "Put must keep its own copy")

	raw, err := got.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"schema_version": "0.0.2"`)
	assert.Contains(t, string(raw), `"limitations": []`)
}

func TestLatestAndList(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	first, err := s.Put(ctx, "census", namedCard("census", "v1"))
	require.NoError(t, err)
	second, err := s.Put(ctx, "census", namedCard("census", "v2"))
	require.NoError(t, err)
	other, err := s.Put(ctx, "adult", namedCard("adult", ""))
	require.NoError(t, err)

	latest, err := s.Latest(ctx, "census")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "v2", latest.Card.ModelDetails.Overview.Value())

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{other.ID, first.ID, second.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	_, err := s.Get(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Latest(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPutValidation(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	_, err := s.Put(ctx, "x", nil)
	assert.ErrorIs(t, err, card.ErrNilCard)
	_, err = s.Put(ctx, "", card.New())
	assert.Error(t, err)

	empty, err := s.Put(ctx, "empty", card.New())
	require.NoError(t, err)
	got, err := s.Get(ctx, empty.ID)
	require.NoError(t, err)
	assert.True(t, got.Card.IsEmpty())
}

func TestPutRejectsUnreadableCards(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	c := namedCard("m", "")
	c.EnsureQuantitativeAnalysis().PerformanceMetrics = []card.PerformanceMetric{{Type: card.Some("acc")}}

	_, err := s.Put(ctx, "", c)
	var convErr *card.ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "quantitative_analysis.performance_metrics.0.value", convErr.Path)

	_, err = s.Latest(ctx, "m")
	assert.ErrorIs(t, err, ErrNotFound)

	summaries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestFileBackedStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cards.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	a, err := s.Put(ctx, "census", namedCard("census", ""))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "census", got.Name)
}
