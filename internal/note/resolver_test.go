package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_PriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		ctx  Context
		want Resolution
	}{
		{
			name: "explicit concept wins over everything",
			ctx: Context{
				ConceptTemplate:        TemplateReposicionNuevaPartida,
				Annulled:               true,
				HasDecreeFields:        true,
				HasCorrectionDecreeRef: true,
				HasOriginalPartidaRef:  true,
				FreeText:               "texto libre",
			},
			want: Resolution{Template: TemplateReposicionNuevaPartida},
		},
		{
			name: "annulled status needs decree fields",
			ctx:  Context{Annulled: true, HasDecreeFields: true},
			want: Resolution{Template: TemplateCorreccionAnulada},
		},
		{
			name: "annulled status without decree fields falls through",
			ctx:  Context{Annulled: true},
			want: Resolution{Template: TemplateEstandar},
		},
		{
			name: "correction and original references select nueva partida",
			ctx:  Context{HasCorrectionDecreeRef: true, HasOriginalPartidaRef: true},
			want: Resolution{Template: TemplateCorreccionNuevaPartida},
		},
		{
			name: "correction reference alone is not enough",
			ctx:  Context{HasCorrectionDecreeRef: true},
			want: Resolution{Template: TemplateEstandar},
		},
		{
			name: "free text passes through verbatim",
			ctx:  Context{FreeText: "Anotación manuscrita del párroco."},
			want: Resolution{Verbatim: "Anotación manuscrita del párroco."},
		},
		{
			name: "annulled status outranks free text",
			ctx:  Context{Annulled: true, HasDecreeFields: true, FreeText: "ignorada"},
			want: Resolution{Template: TemplateCorreccionAnulada},
		},
		{
			name: "empty context defaults to estandar",
			ctx:  Context{},
			want: Resolution{Template: TemplateEstandar},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.ctx))
		})
	}
}

func TestRender_VerbatimSkipsTemplating(t *testing.T) {
	text := Render(Context{FreeText: "Nota literal."}, Params{DecreeNumber: "99"})
	assert.Equal(t, "Nota literal.", text)
}
