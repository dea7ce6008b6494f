//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chancery/internal/concept/models"
	"chancery/internal/note"
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

func conceptFixture(t *testing.T, dioceseID domain.DioceseID, codigo string) *models.AnnulmentConcept {
	t.Helper()
	concept, err := models.NewConcept(
		domain.ConceptID(uuid.New()), dioceseID, codigo,
		"Corrección de datos de la partida", "Cancillería Diocesana",
		models.TypeCorrection, note.TemplateCorreccionAnulada,
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return concept
}

func TestPostgres_RoundTripAndLookup(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	dioceseID := domain.DioceseID(uuid.New())

	concept := conceptFixture(t, dioceseID, "COR-01")
	require.NoError(t, s.Put(ctx, concept))

	got, err := s.Get(ctx, dioceseID, concept.ID)
	require.NoError(t, err)
	assert.Equal(t, concept.Codigo, got.Codigo)
	assert.Equal(t, note.TemplateCorreccionAnulada, got.NotaAlMargenID)

	byCodigo, err := s.FindByCodigo(ctx, dioceseID, "COR-01")
	require.NoError(t, err)
	assert.Equal(t, concept.ID, byCodigo.ID)
}

func TestPostgres_DuplicateCodigo(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	dioceseID := domain.DioceseID(uuid.New())

	require.NoError(t, s.Put(ctx, conceptFixture(t, dioceseID, "COR-01")))

	err := s.Put(ctx, conceptFixture(t, dioceseID, "COR-01"))
	assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)

	// The same codigo in another diocese is fine.
	require.NoError(t, s.Put(ctx, conceptFixture(t, domain.DioceseID(uuid.New()), "COR-01")))
}

func TestPostgres_UpsertSameID(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	dioceseID := domain.DioceseID(uuid.New())

	concept := conceptFixture(t, dioceseID, "COR-01")
	require.NoError(t, s.Put(ctx, concept))

	concept.Concepto = "Corrección por error de transcripción"
	require.NoError(t, s.Put(ctx, concept))

	got, err := s.Get(ctx, dioceseID, concept.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corrección por error de transcripción", got.Concepto)
}

func TestPostgres_ListOrderedByCodigo(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	dioceseID := domain.DioceseID(uuid.New())

	require.NoError(t, s.Put(ctx, conceptFixture(t, dioceseID, "REP-02")))
	require.NoError(t, s.Put(ctx, conceptFixture(t, dioceseID, "COR-01")))

	concepts, err := s.List(ctx, dioceseID)
	require.NoError(t, err)
	require.Len(t, concepts, 2)
	assert.Equal(t, "COR-01", concepts[0].Codigo)
	assert.Equal(t, "REP-02", concepts[1].Codigo)
}
