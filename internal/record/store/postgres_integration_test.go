//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chancery/internal/record/models"
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

func seedRecord(t *testing.T, parishID domain.ParishID) *models.SacramentRecord {
	t.Helper()
	record, err := models.NewRecord(
		domain.RecordID(uuid.New()), parishID, domain.SacramentBaptism,
		domain.Locator{Book: "1", Folio: "4", Entry: "12"},
		models.Payload{Baptism: &models.BaptismDetails{
			FirstName:  "Juan",
			LastName:   "Pérez",
			FatherName: "Pedro Pérez",
			Godparents: []string{"María Solís"},
		}},
		time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return record
}

func TestPostgres_PutGetRoundTrip(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	parishID := domain.ParishID(uuid.New())

	record := seedRecord(t, parishID)
	record.MarginalNote = "Nota libre."
	require.NoError(t, s.Put(ctx, record))

	got, err := s.Get(ctx, parishID, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Locator, got.Locator)
	assert.Equal(t, "Nota libre.", got.MarginalNote)
	assert.Equal(t, record.Payload, got.Payload)
	assert.True(t, record.CreatedAt.Equal(got.CreatedAt))
}

func TestPostgres_UpsertPreservesIdentity(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	parishID := domain.ParishID(uuid.New())

	record := seedRecord(t, parishID)
	require.NoError(t, s.Put(ctx, record))

	supersededBy := domain.RecordID(uuid.New())
	record.ApplyAnnulment(supersededBy, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.Put(ctx, record))

	got, err := s.Get(ctx, parishID, record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RecordStatusAnnulled, got.Status)
	require.NotNil(t, got.SupersededByRecordID)
	assert.Equal(t, supersededBy, *got.SupersededByRecordID)
}

func TestPostgres_GetMissing(t *testing.T) {
	s := newPostgresStore(t)

	_, err := s.Get(context.Background(), domain.ParishID(uuid.New()), domain.RecordID(uuid.New()))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgres_DeleteMissing(t *testing.T) {
	s := newPostgresStore(t)

	err := s.Delete(context.Background(), domain.ParishID(uuid.New()), domain.RecordID(uuid.New()))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgres_ListScopedBySacrament(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	parishID := domain.ParishID(uuid.New())

	baptism := seedRecord(t, parishID)
	require.NoError(t, s.Put(ctx, baptism))

	marriage, err := models.NewRecord(
		domain.RecordID(uuid.New()), parishID, domain.SacramentMarriage,
		domain.Locator{Book: "3", Folio: "1", Entry: "2"},
		models.Payload{Marriage: &models.MarriageDetails{
			GroomFirstName: "Luis", GroomLastName: "Rojas",
			BrideFirstName: "Ana", BrideLastName: "Campos",
		}},
		time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, marriage))

	baptisms, err := s.List(ctx, parishID, domain.SacramentBaptism)
	require.NoError(t, err)
	require.Len(t, baptisms, 1)
	assert.Equal(t, baptism.ID, baptisms[0].ID)
}
