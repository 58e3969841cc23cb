package query

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kailas-cloud/newslens/internal/domain"
)

func topics(keywords ...[]string) []domain.Topic {
	out := make([]domain.Topic, len(keywords))
	for i, kw := range keywords {
		out[i] = domain.Topic{ID: i, Keywords: kw}
	}
	return out
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		entities []string
		topics   []domain.Topic
		want     string
		ok       bool
	}{
		{
			name:     "entities first, at most one topic term",
			entities: []string{"Tesla", "Elon Musk"},
			topics:   topics([]string{"electric vehicles", "battery", "factory"}),
			want:     `Tesla AND "Elon Musk" AND "electric vehicles"`,
			ok:       true,
		},
		{
			name:     "substring redundancy",
			entities: []string{"Apple"},
			topics:   topics([]string{"Apple stock", "iphone"}),
			want:     `"Apple stock" AND iphone`,
			ok:       true,
		},
		{
			name:     "no entities and no topics",
			entities: nil,
			topics:   nil,
			want:     "",
			ok:       false,
		},
		{
			name:     "duplicates collapse",
			entities: []string{"NASA", "NASA"},
			topics:   topics([]string{"NASA"}),
			want:     "NASA",
			ok:       true,
		},
		{
			name:     "two keywords per topic in topic order",
			entities: nil,
			topics:   topics([]string{"storm", "flood", "coast"}, []string{"election", "ballot"}),
			want:     "storm AND flood AND election",
			ok:       true,
		},
		{
			name:     "long multiword terms stay unquoted",
			entities: []string{strings.Repeat("Very Long Organization ", 3)},
			topics:   nil,
			want:     strings.Repeat("Very Long Organization ", 3),
			ok:       true,
		},
		{
			name:     "length counts characters not bytes",
			entities: []string{"Ministère de l'Économie à Genève éééééééééé"},
			topics:   nil,
			want:     `"Ministère de l'Économie à Genève éééééééééé"`,
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Build(tt.entities, tt.topics)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Build() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBuild_ShapeInvariants(t *testing.T) {
	entities := []string{"Kyiv", "Ukraine", "Zelensky", "United Nations", "Russia"}
	tps := topics([]string{"ceasefire talks", "aid"}, []string{"grain exports", "ports"})

	q, ok := Build(entities, tps)
	if !ok {
		t.Fatal("expected a query")
	}
	if n := strings.Count(q, Connector); n > 2 {
		t.Errorf("expected at most 2 connectors, got %d in %q", n, q)
	}
	if n := len(strings.Split(q, Connector)); n > MaxTerms {
		t.Errorf("expected at most %d terms, got %d", MaxTerms, n)
	}
}

func TestTerms_Idempotent(t *testing.T) {
	entities := []string{"Federal Reserve", "Reserve", "Powell", "Powell"}
	tps := topics([]string{"interest rates", "rates", "inflation"})

	once := Terms(entities, tps)

	unquoted := make([]string, len(once))
	for i, term := range once {
		unquoted[i] = strings.Trim(term, `"`)
	}
	twice := Terms(unquoted, nil)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filter not idempotent: %v then %v", once, twice)
	}
	want := []string{`"Federal Reserve"`, "Powell", `"interest rates"`}
	if !reflect.DeepEqual(once, want) {
		t.Errorf("got %v, want %v", once, want)
	}
}

func TestFirstTerm(t *testing.T) {
	tests := map[string]string{
		`"Elon Musk" AND Tesla`: `"Elon Musk"`,
		"storm":                 "storm",
		"":                      "",
		"a AND b AND c":         "a",
	}
	for in, want := range tests {
		if got := FirstTerm(in); got != want {
			t.Errorf("FirstTerm(%q) = %q, want %q", in, got, want)
		}
	}
}
