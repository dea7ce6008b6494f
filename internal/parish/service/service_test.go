package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chancery/internal/parish/store"
	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
)

func TestDirectory_CreateAndList(t *testing.T) {
	d := NewDirectory(store.NewInMemory())
	dioceseID := domain.DioceseID(uuid.New())

	_, err := d.Create(context.Background(), dioceseID, "San Miguel Arcángel", "Heredia")
	require.NoError(t, err)
	_, err = d.Create(context.Background(), dioceseID, "Nuestra Señora del Carmen", "Alajuela")
	require.NoError(t, err)

	parishes, err := d.List(context.Background(), dioceseID)
	require.NoError(t, err)
	require.Len(t, parishes, 2)
	assert.Equal(t, "Nuestra Señora del Carmen", parishes[0].Name)
}

func TestDirectory_CreateRequiresName(t *testing.T) {
	d := NewDirectory(store.NewInMemory())

	_, err := d.Create(context.Background(), domain.DioceseID(uuid.New()), "  ", "Heredia")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestDirectory_DeactivateHidesFromActiveList(t *testing.T) {
	d := NewDirectory(store.NewInMemory())
	dioceseID := domain.DioceseID(uuid.New())

	p1, err := d.Create(context.Background(), dioceseID, "San Miguel Arcángel", "Heredia")
	require.NoError(t, err)
	_, err = d.Create(context.Background(), dioceseID, "Nuestra Señora del Carmen", "Alajuela")
	require.NoError(t, err)

	_, err = d.Deactivate(context.Background(), dioceseID, p1.ID)
	require.NoError(t, err)

	active, err := d.ListActive(context.Background(), dioceseID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Nuestra Señora del Carmen", active[0].Name)

	// Deactivating twice conflicts.
	_, err = d.Deactivate(context.Background(), dioceseID, p1.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	// Reactivation restores it.
	_, err = d.Reactivate(context.Background(), dioceseID, p1.ID)
	require.NoError(t, err)
	active, err = d.ListActive(context.Background(), dioceseID)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestDirectory_GetMissing(t *testing.T) {
	d := NewDirectory(store.NewInMemory())

	_, err := d.Get(context.Background(), domain.DioceseID(uuid.New()), domain.ParishID(uuid.New()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
