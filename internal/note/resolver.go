package note

// Context is the metadata available when deciding which marginal-note
// wording a partida or decree should carry. It is deliberately flat: the
// resolver sees facts, not entities.
type Context struct {
	// ConceptTemplate is the template configured on the decree's annulment
	// concept, when the decree carries a resolvable concept.
	ConceptTemplate TemplateID
	// Annulled is true when the record carries the annulled status, whether
	// a decree set it or it was imported with the historical "anulada" flag.
	Annulled bool
	// HasDecreeFields is true when decree-shaped metadata (number, date)
	// accompanies the record.
	HasDecreeFields bool
	// HasCorrectionDecreeRef is true when the record references an
	// authorizing correction decree.
	HasCorrectionDecreeRef bool
	// HasOriginalPartidaRef is true when the record references the annulled
	// original partida.
	HasOriginalPartidaRef bool
	// FreeText is a marginal note typed verbatim on the record.
	FreeText string
}

// Resolution is the resolver's answer: either a template to render, or
// verbatim text to pass through untouched.
type Resolution struct {
	Template TemplateID
	Verbatim string
}

// rule pairs a predicate with its outcome. Rules are evaluated top-down and
// the first match wins. The table replaces the nested conditional cascade of
// the legacy print templates.
type rule struct {
	name    string
	matches func(Context) bool
	resolve func(Context) Resolution
}

var rules = []rule{
	{
		name:    "explicit concept",
		matches: func(c Context) bool { return c.ConceptTemplate.IsValid() },
		resolve: func(c Context) Resolution { return Resolution{Template: c.ConceptTemplate} },
	},
	{
		name:    "annulled with decree fields",
		matches: func(c Context) bool { return c.Annulled && c.HasDecreeFields },
		resolve: func(Context) Resolution { return Resolution{Template: TemplateCorreccionAnulada} },
	},
	{
		name:    "correction references",
		matches: func(c Context) bool { return c.HasCorrectionDecreeRef && c.HasOriginalPartidaRef },
		resolve: func(Context) Resolution { return Resolution{Template: TemplateCorreccionNuevaPartida} },
	},
	{
		name:    "free text passthrough",
		matches: func(c Context) bool { return c.FreeText != "" },
		resolve: func(c Context) Resolution { return Resolution{Verbatim: c.FreeText} },
	},
	{
		name:    "default",
		matches: func(Context) bool { return true },
		resolve: func(Context) Resolution { return Resolution{Template: TemplateEstandar} },
	},
}

// Resolve walks the rule table and returns the first matching resolution.
// The terminal rule always matches, so Resolve never fails.
func Resolve(c Context) Resolution {
	for _, r := range rules {
		if r.matches(c) {
			return r.resolve(c)
		}
	}
	// Unreachable: the terminal rule matches everything.
	return Resolution{Template: TemplateEstandar}
}

// Render resolves and generates in one step for callers that only want the
// final text.
func Render(c Context, params Params) string {
	res := Resolve(c)
	if res.Verbatim != "" {
		return res.Verbatim
	}
	return Generate(res.Template, params)
}
