//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chancery/internal/decree/models"
	recordmodels "chancery/internal/record/models"
	"chancery/pkg/domain"
	"chancery/pkg/platform/sentinel"
	"chancery/pkg/testutil/containers"
)

func postgresStores(t *testing.T) (*CorrectionPostgres, *ReplacementPostgres) {
	t.Helper()
	pg := containers.GetPostgres(t)
	t.Cleanup(func() {
		require.NoError(t, pg.TruncateTables(context.Background()))
	})
	return NewCorrectionPostgres(pg.DB), NewReplacementPostgres(pg.DB)
}

func correctionDecreeFixture(t *testing.T, parishID domain.ParishID, conceptID domain.ConceptID) *models.CorrectionDecree {
	t.Helper()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	original, err := recordmodels.NewRecord(
		domain.RecordID(uuid.New()), parishID, domain.SacramentBaptism,
		domain.Locator{Book: "1", Folio: "4", Entry: "12"},
		recordmodels.Payload{Baptism: &recordmodels.BaptismDetails{FirstName: "Juan", LastName: "Pérez"}},
		now)
	require.NoError(t, err)

	decree, err := models.NewCorrectionDecree(
		domain.DecreeID(uuid.New()), parishID, "5",
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		conceptID, original, domain.RecordID(uuid.New()), now)
	require.NoError(t, err)
	return decree
}

func TestCorrectionPostgres_RoundTrip(t *testing.T) {
	corrections, _ := postgresStores(t)
	ctx := context.Background()
	parishID := domain.ParishID(uuid.New())

	decree := correctionDecreeFixture(t, parishID, domain.ConceptID(uuid.New()))
	require.NoError(t, corrections.Put(ctx, decree))

	got, err := corrections.Get(ctx, parishID, decree.ID)
	require.NoError(t, err)
	assert.Equal(t, decree.DecreeNumber, got.DecreeNumber)
	assert.True(t, decree.DecreeDate.Equal(got.DecreeDate))
	assert.Equal(t, decree.NewRecordID, got.NewRecordID)

	// The snapshot survives the jsonb round trip intact.
	assert.Equal(t, decree.Original.RecordID, got.Original.RecordID)
	assert.Equal(t, decree.Original.SubjectName, got.Original.SubjectName)
	assert.Equal(t, decree.Original.Record.Payload, got.Original.Record.Payload)

	require.NoError(t, corrections.Delete(ctx, parishID, decree.ID))
	_, err = corrections.Get(ctx, parishID, decree.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestReplacementPostgres_RoundTrip(t *testing.T) {
	_, replacements := postgresStores(t)
	ctx := context.Background()
	parishID := domain.ParishID(uuid.New())
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	decree, err := models.NewReplacementDecree(
		domain.DecreeID(uuid.New()), parishID, "12",
		time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
		models.CausePerdida, domain.SacramentBaptism,
		domain.Locator{Book: "2", Folio: "9"}, "Rosa Martínez",
		domain.ConceptID(uuid.New()), now)
	require.NoError(t, err)
	decree.Testigos = []string{"Pedro Solís", "Ana Campos"}
	require.NoError(t, replacements.Put(ctx, decree))

	got, err := replacements.Get(ctx, parishID, decree.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReplacementStatusDraft, got.Status)
	assert.Equal(t, decree.Testigos, got.Testigos)
	assert.Nil(t, got.NewRecordID)

	newRecordID := domain.RecordID(uuid.New())
	got.ApplyAttach(newRecordID, now.Add(time.Hour))
	require.NoError(t, replacements.Put(ctx, got))

	finalized, err := replacements.Get(ctx, parishID, decree.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReplacementStatusFinalized, finalized.Status)
	require.NotNil(t, finalized.NewRecordID)
	assert.Equal(t, newRecordID, *finalized.NewRecordID)
}

func TestReplacementPostgres_DraftWithoutDate(t *testing.T) {
	_, replacements := postgresStores(t)
	ctx := context.Background()
	parishID := domain.ParishID(uuid.New())

	decree, err := models.NewReplacementDecree(
		domain.DecreeID(uuid.New()), parishID, "14", time.Time{},
		models.CauseDeterioro, domain.SacramentMarriage,
		domain.Locator{}, "Luis Rojas y Ana Campos",
		domain.ConceptID(uuid.New()), time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, replacements.Put(ctx, decree))

	got, err := replacements.Get(ctx, parishID, decree.ID)
	require.NoError(t, err)
	assert.True(t, got.DecreeDate.IsZero())
}

func TestCountByConcept_SpansBothKinds(t *testing.T) {
	corrections, replacements := postgresStores(t)
	ctx := context.Background()
	parishID := domain.ParishID(uuid.New())
	conceptID := domain.ConceptID(uuid.New())

	require.NoError(t, corrections.Put(ctx, correctionDecreeFixture(t, parishID, conceptID)))

	decree, err := models.NewReplacementDecree(
		domain.DecreeID(uuid.New()), parishID, "9",
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		models.CauseDestruccion, domain.SacramentBaptism,
		domain.Locator{}, "Pedro Solís", conceptID, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, replacements.Put(ctx, decree))

	n, err := corrections.CountByConcept(ctx, conceptID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = replacements.CountByConcept(ctx, conceptID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = corrections.CountByConcept(ctx, domain.ConceptID(uuid.New()))
	require.NoError(t, err)
	assert.Zero(t, n)
}
