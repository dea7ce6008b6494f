package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chancery/internal/concept/store"
	"chancery/internal/note"
	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
)

type staticRefs struct {
	count int
}

func (s staticRefs) CountByConcept(context.Context, domain.DioceseID, domain.ConceptID) (int, error) {
	return s.count, nil
}

func newTestRegistry(refs ReferenceCounter) *Registry {
	opts := []Option{}
	if refs != nil {
		opts = append(opts, WithReferenceCounter(refs))
	}
	return NewRegistry(store.NewInMemory(), opts...)
}

func TestRegistry_CreateAndResolve(t *testing.T) {
	r := newTestRegistry(nil)
	dioceseID := domain.DioceseID(uuid.New())

	concept, err := r.Create(context.Background(), dioceseID, CreateConceptRequest{
		Codigo:         "COR-01",
		Concepto:       "Corrección de datos de la partida",
		Expide:         "Cancillería Diocesana",
		Tipo:           "porCorreccion",
		NotaAlMargenID: note.TemplateCorreccionAnulada,
	})
	require.NoError(t, err)
	require.False(t, concept.ID.IsNil())

	resolved, err := r.Resolve(context.Background(), dioceseID, concept.ID)
	require.NoError(t, err)
	assert.Equal(t, "COR-01", resolved.Codigo)
	assert.Equal(t, note.TemplateCorreccionAnulada, resolved.NotaAlMargenID)

	byCodigo, err := r.ResolveByCodigo(context.Background(), dioceseID, "COR-01")
	require.NoError(t, err)
	assert.Equal(t, concept.ID, byCodigo.ID)
}

func TestRegistry_CreateRejectsUnknownType(t *testing.T) {
	r := newTestRegistry(nil)

	_, err := r.Create(context.Background(), domain.DioceseID(uuid.New()), CreateConceptRequest{
		Codigo:   "X-01",
		Concepto: "desconocido",
		Tipo:     "porCapricho",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestRegistry_CreateDefaultsNoteTemplate(t *testing.T) {
	r := newTestRegistry(nil)

	concept, err := r.Create(context.Background(), domain.DioceseID(uuid.New()), CreateConceptRequest{
		Codigo:   "REP-01",
		Concepto: "Reposición por pérdida del libro",
		Tipo:     "porReposicion",
	})
	require.NoError(t, err)
	assert.Equal(t, note.TemplateEstandar, concept.NotaAlMargenID)
}

func TestRegistry_DuplicateCodigoConflicts(t *testing.T) {
	r := newTestRegistry(nil)
	dioceseID := domain.DioceseID(uuid.New())

	req := CreateConceptRequest{Codigo: "COR-01", Concepto: "Corrección", Tipo: "porCorreccion"}
	_, err := r.Create(context.Background(), dioceseID, req)
	require.NoError(t, err)

	_, err = r.Create(context.Background(), dioceseID, req)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestRegistry_ResolveMissingIsConceptNotFound(t *testing.T) {
	r := newTestRegistry(nil)

	_, err := r.Resolve(context.Background(), domain.DioceseID(uuid.New()), domain.ConceptID(uuid.New()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConceptNotFound))
}

func TestRegistry_UpdateFields(t *testing.T) {
	r := newTestRegistry(nil)
	dioceseID := domain.DioceseID(uuid.New())

	concept, err := r.Create(context.Background(), dioceseID, CreateConceptRequest{
		Codigo: "NUL-01", Concepto: "Nulidad", Tipo: "porNulidad",
	})
	require.NoError(t, err)

	newConcepto := "Nulidad matrimonial declarada"
	newExpide := "Tribunal Eclesiástico"
	updated, err := r.Update(context.Background(), dioceseID, concept.ID, UpdateConceptRequest{
		Concepto: &newConcepto,
		Expide:   &newExpide,
	})
	require.NoError(t, err)
	assert.Equal(t, newConcepto, updated.Concepto)
	assert.Equal(t, newExpide, updated.Expide)
	assert.Equal(t, "NUL-01", updated.Codigo)
}

func TestRegistry_DeleteGuardedByReferences(t *testing.T) {
	r := newTestRegistry(staticRefs{count: 2})
	dioceseID := domain.DioceseID(uuid.New())

	concept, err := r.Create(context.Background(), dioceseID, CreateConceptRequest{
		Codigo: "COR-01", Concepto: "Corrección", Tipo: "porCorreccion",
	})
	require.NoError(t, err)

	err = r.Delete(context.Background(), dioceseID, concept.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	// Still resolvable after the refused delete.
	_, err = r.Resolve(context.Background(), dioceseID, concept.ID)
	require.NoError(t, err)
}

func TestRegistry_DeleteUnreferenced(t *testing.T) {
	r := newTestRegistry(staticRefs{count: 0})
	dioceseID := domain.DioceseID(uuid.New())

	concept, err := r.Create(context.Background(), dioceseID, CreateConceptRequest{
		Codigo: "COR-01", Concepto: "Corrección", Tipo: "porCorreccion",
	})
	require.NoError(t, err)

	require.NoError(t, r.Delete(context.Background(), dioceseID, concept.ID))

	_, err = r.Resolve(context.Background(), dioceseID, concept.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConceptNotFound))
}
