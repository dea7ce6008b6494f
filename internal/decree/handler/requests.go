package handler

import (
	"time"

	"chancery/internal/decree/service"
	recordmodels "chancery/internal/record/models"
	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
)

// dateLayout is how decree dates travel on the wire. Decree headers carry a
// calendar date, not an instant.
const dateLayout = "2006-01-02"

type createCorrectionRequest struct {
	OriginalRecordID string               `json:"original_record_id"`
	NewLocator       domain.Locator       `json:"new_locator"`
	NewPayload       recordmodels.Payload `json:"new_payload"`
	ConceptID        string               `json:"concept_id"`
	DecreeNumber     string               `json:"decree_number"`
	DecreeDate       string               `json:"decree_date,omitempty"`
}

func (r createCorrectionRequest) toService(dioceseID domain.DioceseID, parishID domain.ParishID) (service.CreateCorrectionRequest, error) {
	originalID, err := domain.ParseRecordID(r.OriginalRecordID)
	if err != nil {
		return service.CreateCorrectionRequest{}, err
	}
	conceptID, err := domain.ParseConceptID(r.ConceptID)
	if err != nil {
		return service.CreateCorrectionRequest{}, err
	}
	decreeDate, err := parseDate(r.DecreeDate)
	if err != nil {
		return service.CreateCorrectionRequest{}, err
	}
	return service.CreateCorrectionRequest{
		DioceseID:        dioceseID,
		ParishID:         parishID,
		OriginalRecordID: originalID,
		NewLocator:       r.NewLocator,
		NewPayload:       r.NewPayload,
		ConceptID:        conceptID,
		DecreeNumber:     r.DecreeNumber,
		DecreeDate:       decreeDate,
	}, nil
}

type correctionPatchRequest struct {
	DecreeNumber *string               `json:"decree_number,omitempty"`
	DecreeDate   *string               `json:"decree_date,omitempty"`
	ConceptID    *string               `json:"concept_id,omitempty"`
	NewPayload   *recordmodels.Payload `json:"new_payload,omitempty"`
}

func (r correctionPatchRequest) toService() (service.CorrectionPatch, error) {
	patch := service.CorrectionPatch{
		DecreeNumber: r.DecreeNumber,
		NewPayload:   r.NewPayload,
	}
	if r.DecreeDate != nil {
		d, err := parseDate(*r.DecreeDate)
		if err != nil {
			return service.CorrectionPatch{}, err
		}
		patch.DecreeDate = &d
	}
	if r.ConceptID != nil {
		id, err := domain.ParseConceptID(*r.ConceptID)
		if err != nil {
			return service.CorrectionPatch{}, err
		}
		patch.ConceptID = &id
	}
	return patch, nil
}

type createReplacementRequest struct {
	DecreeNumber      string         `json:"decree_number"`
	DecreeDate        string         `json:"decree_date,omitempty"`
	Causa             string         `json:"causa"`
	SacramentType     string         `json:"sacrament_type"`
	OriginalLocator   domain.Locator `json:"original_locator"`
	SubjectName       string         `json:"subject_name"`
	ConceptID         string         `json:"concept_id"`
	DescripcionHechos string         `json:"descripcion_hechos,omitempty"`
	Autoridad         string         `json:"autoridad,omitempty"`
	Testigos          []string       `json:"testigos,omitempty"`
}

func (r createReplacementRequest) toService(dioceseID domain.DioceseID, parishID domain.ParishID) (service.CreateReplacementRequest, error) {
	conceptID, err := domain.ParseConceptID(r.ConceptID)
	if err != nil {
		return service.CreateReplacementRequest{}, err
	}
	decreeDate, err := parseDate(r.DecreeDate)
	if err != nil {
		return service.CreateReplacementRequest{}, err
	}
	return service.CreateReplacementRequest{
		DioceseID:         dioceseID,
		ParishID:          parishID,
		DecreeNumber:      r.DecreeNumber,
		DecreeDate:        decreeDate,
		Causa:             r.Causa,
		SacramentType:     r.SacramentType,
		OriginalLocator:   r.OriginalLocator,
		SubjectName:       r.SubjectName,
		ConceptID:         conceptID,
		DescripcionHechos: r.DescripcionHechos,
		Autoridad:         r.Autoridad,
		Testigos:          r.Testigos,
	}, nil
}

type replacementPatchRequest struct {
	DecreeNumber      *string   `json:"decree_number,omitempty"`
	DecreeDate        *string   `json:"decree_date,omitempty"`
	Causa             *string   `json:"causa,omitempty"`
	ConceptID         *string   `json:"concept_id,omitempty"`
	SubjectName       *string   `json:"subject_name,omitempty"`
	DescripcionHechos *string   `json:"descripcion_hechos,omitempty"`
	Autoridad         *string   `json:"autoridad,omitempty"`
	Testigos          *[]string `json:"testigos,omitempty"`
}

func (r replacementPatchRequest) toService() (service.ReplacementPatch, error) {
	patch := service.ReplacementPatch{
		DecreeNumber:      r.DecreeNumber,
		Causa:             r.Causa,
		SubjectName:       r.SubjectName,
		DescripcionHechos: r.DescripcionHechos,
		Autoridad:         r.Autoridad,
		Testigos:          r.Testigos,
	}
	if r.DecreeDate != nil {
		d, err := parseDate(*r.DecreeDate)
		if err != nil {
			return service.ReplacementPatch{}, err
		}
		patch.DecreeDate = &d
	}
	if r.ConceptID != nil {
		id, err := domain.ParseConceptID(*r.ConceptID)
		if err != nil {
			return service.ReplacementPatch{}, err
		}
		patch.ConceptID = &id
	}
	return patch, nil
}

type attachRecordRequest struct {
	NewRecordID string `json:"new_record_id"`
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "decree date must be YYYY-MM-DD")
	}
	return t, nil
}
