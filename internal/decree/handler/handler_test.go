package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conceptservice "chancery/internal/concept/service"
	conceptstore "chancery/internal/concept/store"
	decreemodels "chancery/internal/decree/models"
	decreestore "chancery/internal/decree/store"
	"chancery/internal/decree/service"
	recordmodels "chancery/internal/record/models"
	recordstore "chancery/internal/record/store"
	"chancery/pkg/domain"
	"chancery/pkg/testutil"
)

type handlerFixture struct {
	router    http.Handler
	records   *recordstore.InMemory
	dioceseID domain.DioceseID
	parishID  domain.ParishID
	conceptID domain.ConceptID
	recordID  domain.RecordID
	base      string
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	records := recordstore.NewInMemory()
	corrections := decreestore.NewCorrectionInMemory()
	replacements := decreestore.NewReplacementInMemory()
	concepts := conceptstore.NewInMemory()

	registry := conceptservice.NewRegistry(concepts, conceptservice.WithLogger(logger))
	engine := service.NewEngine(records, corrections, replacements, registry,
		service.WithLogger(logger))

	dioceseID := domain.DioceseID(uuid.New())
	parishID := domain.ParishID(uuid.New())

	concept, err := registry.Create(ctx, dioceseID, conceptservice.CreateConceptRequest{
		Codigo:   "COR-01",
		Concepto: "Corrección de datos de la partida",
		Expide:   "Cancillería Diocesana",
		Tipo:     "porCorreccion",
	})
	require.NoError(t, err)

	record, err := recordmodels.NewRecord(
		domain.RecordID(uuid.New()), parishID, domain.SacramentBaptism,
		domain.Locator{Book: "1", Folio: "4", Entry: "12"},
		recordmodels.Payload{Baptism: &recordmodels.BaptismDetails{
			FirstName: "Juan", LastName: "Péres",
		}},
		time.Now())
	require.NoError(t, err)
	require.NoError(t, records.Put(ctx, record))

	r := chi.NewRouter()
	New(engine, logger).Register(r)

	return &handlerFixture{
		router:    r,
		records:   records,
		dioceseID: dioceseID,
		parishID:  parishID,
		conceptID: concept.ID,
		recordID:  record.ID,
		base:      "/dioceses/" + dioceseID.String() + "/parishes/" + parishID.String(),
	}
}

func (f *handlerFixture) correctionBody() map[string]any {
	return map[string]any{
		"original_record_id": f.recordID.String(),
		"new_locator":        map[string]string{"book": "2", "folio": "10", "entry": "1"},
		"new_payload": map[string]any{
			"baptism": map[string]any{"first_name": "Juan", "last_name": "Pérez"},
		},
		"concept_id":    f.conceptID.String(),
		"decree_number": "5",
		"decree_date":   "2024-01-01",
	}
}

func TestCreateCorrectionEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	req := testutil.WithActor(
		testutil.NewJSONRequest(t, http.MethodPost, f.base+"/corrections", f.correctionBody()),
		"canciller@diocesis.cr")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusCreated)
	testutil.AssertJSONHasKey(t, rr, "decree")
	testutil.AssertJSONHasKey(t, rr, "new_partida")

	result := testutil.UnmarshalResponse[service.CreateCorrectionResult](t, rr)
	assert.Equal(t, "5", result.Decree.DecreeNumber)
	assert.Equal(t, "2", result.NewPartida.Book)
}

func TestCreateCorrectionRejectsBadInput(t *testing.T) {
	f := newHandlerFixture(t)

	t.Run("malformed body", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequestWithBody(t, http.MethodPost,
			f.base+"/corrections", `{"original_record_id":`))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	t.Run("unknown field", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequestWithBody(t, http.MethodPost,
			f.base+"/corrections", `{"record":"`+f.recordID.String()+`"}`))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	t.Run("bad decree date", func(t *testing.T) {
		body := f.correctionBody()
		body["decree_date"] = "01/01/2024"
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost,
			f.base+"/corrections", body))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation")
	})

	t.Run("bad parish id in path", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost,
			"/dioceses/"+f.dioceseID.String()+"/parishes/not-a-uuid/corrections",
			f.correctionBody()))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	})

	t.Run("missing original record", func(t *testing.T) {
		body := f.correctionBody()
		body["original_record_id"] = uuid.NewString()
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost,
			f.base+"/corrections", body))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}

func TestGetCorrectionMissing(t *testing.T) {
	f := newHandlerFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet,
		f.base+"/corrections/"+uuid.NewString()))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestCorrectionLifecycleEndpoints(t *testing.T) {
	f := newHandlerFixture(t)

	issuedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	testutil.Given(t, "an issued correction decree", func(t *testing.T) {
		req := testutil.WithFixedTime(testutil.WithRequestID(
			testutil.NewJSONRequest(t, http.MethodPost, f.base+"/corrections", f.correctionBody()),
			"req-decree-5"), issuedAt)
		rr := testutil.DoRequest(f.router, req)
		testutil.AssertStatus(t, rr, http.StatusCreated)
		created := testutil.UnmarshalResponse[service.CreateCorrectionResult](t, rr)
		assert.True(t, created.Decree.CreatedAt.Equal(issuedAt))
		decreeURL := f.base + "/corrections/" + created.Decree.ID.String()

		testutil.When(t, "listing parish corrections", func(t *testing.T) {
			rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet,
				f.base+"/corrections"))
			testutil.AssertStatusOK(t, rr)
			listed := testutil.UnmarshalResponse[[]*decreemodels.CorrectionDecree](t, rr)
			require.Len(t, *listed, 1)
			assert.Equal(t, created.Decree.ID, (*listed)[0].ID)
		})

		testutil.When(t, "patching the decree number", func(t *testing.T) {
			rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPatch,
				decreeURL, map[string]string{"decree_number": "5-bis"}))
			testutil.AssertStatusOK(t, rr)
			testutil.AssertJSONContains(t, rr, "decree_number", "5-bis")
		})

		testutil.When(t, "revoking the decree", func(t *testing.T) {
			rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodDelete, decreeURL))
			testutil.AssertStatusOK(t, rr)

			testutil.Then(t, "the decree is gone", func(t *testing.T) {
				rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, decreeURL))
				testutil.AssertStatus(t, rr, http.StatusNotFound)
			})
		})
	})
}
