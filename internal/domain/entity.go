package domain

// EntitySpan is one named-entity mention as produced by a recognizer.
type EntitySpan struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// EntityLabels are the recognizer labels kept for query building.
var EntityLabels = map[string]struct{}{
	"PERSON":  {},
	"ORG":     {},
	"GPE":     {},
	"PRODUCT": {},
	"EVENT":   {},
	"LOC":     {},
}

// Salient reports whether the span's label is one of EntityLabels.
func (e EntitySpan) Salient() bool {
	_, ok := EntityLabels[e.Label]
	return ok
}
