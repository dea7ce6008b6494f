// Package note produces the legal text of marginal annotations (notas al
// margen) and resolves which template applies to a given partida or decree.
//
// Generation is display-tolerant on purpose: decrees are frequently drafted
// before every field is known, so missing values render as the placeholder
// "___" and generation never fails.
package note

import (
	"fmt"
	"strings"

	"chancery/pkg/domain"
)

// TemplateID selects one of the supported marginal-note wordings.
type TemplateID string

const (
	// TemplateEstandar is the default boilerplate for partidas with nothing
	// to annotate.
	TemplateEstandar TemplateID = "estandar"
	// TemplateCorreccionAnulada goes on the annulled original, referencing
	// the decree and the corrected partida's locator.
	TemplateCorreccionAnulada TemplateID = "porCorreccion.anulada"
	// TemplateCorreccionNuevaPartida goes on the corrected partida,
	// referencing back to the annulled original.
	TemplateCorreccionNuevaPartida TemplateID = "porCorreccion.nuevaPartida"
	// TemplateReposicionNuevaPartida goes on a partida reconstructed by a
	// replacement decree.
	TemplateReposicionNuevaPartida TemplateID = "porReposicion.nuevaPartida"
)

var validTemplates = map[TemplateID]bool{
	TemplateEstandar:               true,
	TemplateCorreccionAnulada:      true,
	TemplateCorreccionNuevaPartida: true,
	TemplateReposicionNuevaPartida: true,
}

// IsValid checks if the template id is one of the supported wordings.
func (t TemplateID) IsValid() bool {
	return validTemplates[t]
}

// String returns the string representation of the template id.
func (t TemplateID) String() string {
	return string(t)
}

// Params carries every field any template can consume. Templates pick what
// they need; absent values render as placeholders.
type Params struct {
	DecreeNumber    string
	DecreeDate      string
	IssuingOffice   string
	Causa           string
	NewLocator      domain.Locator
	OriginalLocator domain.Locator
}

// placeholder replaces any missing field in the rendered text.
const placeholder = "___"

// Generate renders the marginal-note text for the template. Unknown template
// ids fall back to the standard boilerplate; the function never fails.
func Generate(templateID TemplateID, params Params) string {
	switch templateID {
	case TemplateCorreccionAnulada:
		return fmt.Sprintf(
			"PARTIDA ANULADA por Decreto N.º %s de fecha %s. Sustituida por la partida asentada en %s.",
			orPlaceholder(params.DecreeNumber),
			orPlaceholder(params.DecreeDate),
			locatorText(params.NewLocator),
		)
	case TemplateCorreccionNuevaPartida:
		return fmt.Sprintf(
			"Partida asentada en corrección de la inscrita en %s, anulada por Decreto N.º %s de fecha %s, expedido por %s.",
			locatorText(params.OriginalLocator),
			orPlaceholder(params.DecreeNumber),
			orPlaceholder(params.DecreeDate),
			orPlaceholder(params.IssuingOffice),
		)
	case TemplateReposicionNuevaPartida:
		return fmt.Sprintf(
			"Partida repuesta por Decreto N.º %s de fecha %s, por causa de %s del libro original.",
			orPlaceholder(params.DecreeNumber),
			orPlaceholder(params.DecreeDate),
			orPlaceholder(params.Causa),
		)
	default:
		return "SIN NOTAS MARGINALES."
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return strings.TrimSpace(s)
}

func locatorText(l domain.Locator) string {
	return fmt.Sprintf("libro %s, folio %s, número %s",
		orPlaceholder(l.Book), orPlaceholder(l.Folio), orPlaceholder(l.Entry))
}
