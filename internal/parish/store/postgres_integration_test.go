//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chancery/internal/parish/models"
	"chancery/pkg/domain"
	"chancery/pkg/platform/sentinel"
	"chancery/pkg/testutil/containers"
)

func newPostgresStore(t *testing.T) *Postgres {
	t.Helper()
	pg := containers.GetPostgres(t)
	t.Cleanup(func() {
		require.NoError(t, pg.TruncateTables(context.Background()))
	})
	return NewPostgres(pg.DB)
}

func parishFixture(t *testing.T, dioceseID domain.DioceseID, name, city string) *models.Parish {
	t.Helper()
	parish, err := models.NewParish(
		domain.ParishID(uuid.New()), dioceseID, name, city,
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return parish
}

func TestPostgres_RoundTrip(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	dioceseID := domain.DioceseID(uuid.New())

	parish := parishFixture(t, dioceseID, "San Miguel Arcángel", "Heredia")
	require.NoError(t, s.Put(ctx, parish))

	got, err := s.Get(ctx, dioceseID, parish.ID)
	require.NoError(t, err)
	assert.Equal(t, parish.Name, got.Name)
	assert.Equal(t, models.ParishStatusActive, got.Status)

	got.ApplyDeactivation(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.Put(ctx, got))

	reloaded, err := s.Get(ctx, dioceseID, parish.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParishStatusInactive, reloaded.Status)
}

func TestPostgres_GetMissing(t *testing.T) {
	s := newPostgresStore(t)

	_, err := s.Get(context.Background(), domain.DioceseID(uuid.New()), domain.ParishID(uuid.New()))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgres_ListOrderedByName(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	dioceseID := domain.DioceseID(uuid.New())

	require.NoError(t, s.Put(ctx, parishFixture(t, dioceseID, "San Miguel Arcángel", "Heredia")))
	require.NoError(t, s.Put(ctx, parishFixture(t, dioceseID, "Nuestra Señora del Carmen", "Alajuela")))
	require.NoError(t, s.Put(ctx, parishFixture(t, domain.DioceseID(uuid.New()), "Otra Diócesis", "San José")))

	parishes, err := s.List(ctx, dioceseID)
	require.NoError(t, err)
	require.Len(t, parishes, 2)
	assert.Equal(t, "Nuestra Señora del Carmen", parishes[0].Name)
	assert.Equal(t, "San Miguel Arcángel", parishes[1].Name)
}
