package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chancery/internal/decree/mocks"
	recordmodels "chancery/internal/record/models"
	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
)

func (f *engineFixture) createReplacementRequest() CreateReplacementRequest {
	return CreateReplacementRequest{
		DioceseID:         f.dioceseID,
		ParishID:          f.parishID,
		DecreeNumber:      "12",
		DecreeDate:        time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
		Causa:             "PERDIDA",
		SacramentType:     "baptism",
		OriginalLocator:   domain.Locator{Book: "1", Folio: "33", Entry: "7"},
		SubjectName:       "Rosa Martínez",
		ConceptID:         f.conceptID,
		DescripcionHechos: "El libro primero de bautismos se extravió durante el traslado del archivo.",
		Autoridad:         "Vicario General",
		Testigos:          []string{"Carmen Ruiz", "José Aguilar"},
	}
}

func TestCreateReplacement_Draft(t *testing.T) {
	f := newEngineFixture(t)

	decree, err := f.engine.CreateReplacement(context.Background(), f.createReplacementRequest())
	require.NoError(t, err)

	assert.Equal(t, "12", decree.DecreeNumber)
	assert.False(t, decree.IsFinalized())
	assert.Nil(t, decree.NewRecordID)
	assert.Equal(t, []string{"Carmen Ruiz", "José Aguilar"}, decree.Testigos)
}

func TestCreateReplacement_UnknownCause(t *testing.T) {
	f := newEngineFixture(t)

	req := f.createReplacementRequest()
	req.Causa = "EXTRAVIO"

	_, err := f.engine.CreateReplacement(context.Background(), req)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestAttachNewRecord_FinalizesAndAnnotates(t *testing.T) {
	f := newEngineFixture(t)

	decree, err := f.engine.CreateReplacement(context.Background(), f.createReplacementRequest())
	require.NoError(t, err)

	reconstructed := f.seedBaptism(t, "Rosa", "Martínez", domain.Locator{Book: "3", Folio: "1", Entry: "1"})

	finalized, err := f.engine.AttachNewRecord(context.Background(), f.parishID, decree.ID, reconstructed.ID)
	require.NoError(t, err)
	assert.True(t, finalized.IsFinalized())
	require.NotNil(t, finalized.NewRecordID)
	assert.Equal(t, reconstructed.ID, *finalized.NewRecordID)

	annotated, err := f.records.Get(context.Background(), f.parishID, reconstructed.ID)
	require.NoError(t, err)
	assert.Contains(t, annotated.MarginalNote, "Partida repuesta por Decreto N.º 12")
	assert.Contains(t, annotated.MarginalNote, "PERDIDA")
}

func TestAttachNewRecord_FinalizedConflicts(t *testing.T) {
	f := newEngineFixture(t)

	decree, err := f.engine.CreateReplacement(context.Background(), f.createReplacementRequest())
	require.NoError(t, err)

	first := f.seedBaptism(t, "Rosa", "Martínez", domain.Locator{Book: "3", Folio: "1", Entry: "1"})
	_, err = f.engine.AttachNewRecord(context.Background(), f.parishID, decree.ID, first.ID)
	require.NoError(t, err)

	second := f.seedBaptism(t, "Rosa", "Martínez", domain.Locator{Book: "3", Folio: "1", Entry: "2"})
	_, err = f.engine.AttachNewRecord(context.Background(), f.parishID, decree.ID, second.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestAttachNewRecord_SacramentMismatch(t *testing.T) {
	f := newEngineFixture(t)

	decree, err := f.engine.CreateReplacement(context.Background(), f.createReplacementRequest())
	require.NoError(t, err)

	marriage, err := recordmodels.NewRecord(
		domain.RecordID(uuid.New()), f.parishID, domain.SacramentMarriage,
		domain.Locator{Book: "1", Folio: "1", Entry: "1"},
		recordmodels.Payload{Marriage: &recordmodels.MarriageDetails{
			GroomFirstName: "Luis", GroomLastName: "Ortega",
			BrideFirstName: "Elena", BrideLastName: "Vidal",
		}},
		time.Now())
	require.NoError(t, err)
	require.NoError(t, f.records.Put(context.Background(), marriage))

	_, err = f.engine.AttachNewRecord(context.Background(), f.parishID, decree.ID, marriage.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestDeleteReplacement_RemovesLinkedRecord(t *testing.T) {
	f := newEngineFixture(t)

	decree, err := f.engine.CreateReplacement(context.Background(), f.createReplacementRequest())
	require.NoError(t, err)

	reconstructed := f.seedBaptism(t, "Rosa", "Martínez", domain.Locator{Book: "3", Folio: "1", Entry: "1"})
	_, err = f.engine.AttachNewRecord(context.Background(), f.parishID, decree.ID, reconstructed.ID)
	require.NoError(t, err)

	result, err := f.engine.DeleteReplacement(context.Background(), f.parishID, decree.ID)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	_, err = f.records.Get(context.Background(), f.parishID, reconstructed.ID)
	require.Error(t, err)

	_, err = f.engine.GetReplacement(context.Background(), f.parishID, decree.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestDeleteReplacement_DraftLeavesRecordsAlone(t *testing.T) {
	f := newEngineFixture(t)

	decree, err := f.engine.CreateReplacement(context.Background(), f.createReplacementRequest())
	require.NoError(t, err)

	bystander := f.seedBaptism(t, "Rosa", "Martínez", domain.Locator{Book: "3", Folio: "1", Entry: "1"})

	_, err = f.engine.DeleteReplacement(context.Background(), f.parishID, decree.ID)
	require.NoError(t, err)

	_, err = f.records.Get(context.Background(), f.parishID, bystander.ID)
	require.NoError(t, err)
}

func TestDeleteReplacement_TolerantCleanup(t *testing.T) {
	f := newEngineFixture(t)

	decree, err := f.engine.CreateReplacement(context.Background(), f.createReplacementRequest())
	require.NoError(t, err)

	reconstructed := f.seedBaptism(t, "Rosa", "Martínez", domain.Locator{Book: "3", Folio: "1", Entry: "1"})
	_, err = f.engine.AttachNewRecord(context.Background(), f.parishID, decree.ID, reconstructed.ID)
	require.NoError(t, err)

	require.NoError(t, f.records.Delete(context.Background(), f.parishID, reconstructed.ID))

	result, err := f.engine.DeleteReplacement(context.Background(), f.parishID, decree.ID)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "new_record_missing", result.Warnings[0].Code)
}

func TestUpdateReplacement_Narrative(t *testing.T) {
	f := newEngineFixture(t)

	decree, err := f.engine.CreateReplacement(context.Background(), f.createReplacementRequest())
	require.NoError(t, err)

	causa := "DETERIORO"
	autoridad := "Canciller"
	updated, err := f.engine.UpdateReplacement(context.Background(),
		f.dioceseID, f.parishID, decree.ID,
		ReplacementPatch{Causa: &causa, Autoridad: &autoridad})
	require.NoError(t, err)
	assert.Equal(t, "DETERIORO", string(updated.Causa))
	assert.Equal(t, "Canciller", updated.Autoridad)
	assert.False(t, updated.IsFinalized())
}

func TestDispatch_FailureNeverFailsOperation(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	dispatcher.EXPECT().
		Notify(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(assert.AnError)

	f := newEngineFixture(t)
	f.engine.dispatcher = dispatcher

	decree, err := f.engine.CreateReplacement(context.Background(), f.createReplacementRequest())
	require.NoError(t, err)
	require.NotNil(t, decree)
}
