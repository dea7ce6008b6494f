package note

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chancery/pkg/domain"
)

func TestGenerate_NeverFailsOnEmptyParams(t *testing.T) {
	templates := []TemplateID{
		TemplateEstandar,
		TemplateCorreccionAnulada,
		TemplateCorreccionNuevaPartida,
		TemplateReposicionNuevaPartida,
	}
	for _, tmpl := range templates {
		t.Run(tmpl.String(), func(t *testing.T) {
			text := Generate(tmpl, Params{})
			require.NotEmpty(t, text)
			if tmpl != TemplateEstandar {
				assert.Contains(t, text, "___", "missing fields must render as placeholders")
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	params := Params{
		DecreeNumber: "5",
		DecreeDate:   "2024-01-01",
		NewLocator:   domain.Locator{Book: "2", Folio: "10", Entry: "3"},
	}

	first := Generate(TemplateCorreccionAnulada, params)
	second := Generate(TemplateCorreccionAnulada, params)

	assert.Equal(t, first, second)
	for _, substr := range []string{"5", "2", "10", "3", "2024-01-01"} {
		assert.Contains(t, first, substr)
	}
	assert.NotContains(t, first, "___")
}

func TestGenerate_PartialParams(t *testing.T) {
	text := Generate(TemplateCorreccionNuevaPartida, Params{
		DecreeNumber:    "12",
		OriginalLocator: domain.Locator{Book: "1", Folio: "4", Entry: "9"},
	})

	assert.Contains(t, text, "12")
	assert.Contains(t, text, "libro 1")
	// date and issuing office were not provided
	assert.Equal(t, 2, strings.Count(text, "___"))
}

func TestGenerate_Estandar(t *testing.T) {
	assert.Equal(t, "SIN NOTAS MARGINALES.", Generate(TemplateEstandar, Params{}))
}

func TestGenerate_UnknownTemplateFallsBack(t *testing.T) {
	assert.Equal(t, "SIN NOTAS MARGINALES.", Generate(TemplateID("no-such-template"), Params{}))
}
