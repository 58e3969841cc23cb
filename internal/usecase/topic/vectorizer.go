package topic

import (
	"regexp"
	"sort"
	"strings"
)

// Words are runs of Unicode letters, digits, underscores and hyphens; only
// all-ASCII-letter runs of three or more survive, so "café" yields nothing.
var (
	wordPattern  = regexp.MustCompile(`[\p{L}\p{N}_-]+`)
	tokenPattern = regexp.MustCompile(`^[A-Za-z-]{3,}$`)
)

func tokenize(doc string) []string {
	var out []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(doc), -1) {
		if tokenPattern.MatchString(w) {
			out = append(out, w)
		}
	}
	return out
}

// Vectorizer counts unigrams and bigrams of lowercased word tokens.
// Bigrams are formed after stopword removal.
type Vectorizer struct {
	stopwords map[string]struct{}
}

// NewVectorizer creates a vectorizer with the given stopword set.
func NewVectorizer(stopwords map[string]struct{}) *Vectorizer {
	if stopwords == nil {
		stopwords = DefaultStopwords()
	}
	return &Vectorizer{stopwords: stopwords}
}

// Terms returns the unigrams followed by the bigrams of doc.
func (v *Vectorizer) Terms(doc string) []string {
	var words []string
	for _, tok := range tokenize(doc) {
		if _, stop := v.stopwords[tok]; stop {
			continue
		}
		words = append(words, tok)
	}
	terms := make([]string, 0, 2*len(words))
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// Counts is a class-by-term count matrix over a sorted vocabulary.
type Counts struct {
	Vocab []string
	Rows  [][]float64
}

// Fit counts terms per class document. The vocabulary is sorted.
func (v *Vectorizer) Fit(docs []string) Counts {
	perDoc := make([]map[string]int, len(docs))
	vocabSet := make(map[string]struct{})
	for i, doc := range docs {
		perDoc[i] = make(map[string]int)
		for _, t := range v.Terms(doc) {
			perDoc[i][t]++
			vocabSet[t] = struct{}{}
		}
	}

	vocab := make([]string, 0, len(vocabSet))
	for t := range vocabSet {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)
	index := make(map[string]int, len(vocab))
	for i, t := range vocab {
		index[t] = i
	}

	rows := make([][]float64, len(docs))
	for i, m := range perDoc {
		rows[i] = make([]float64, len(vocab))
		for t, c := range m {
			rows[i][index[t]] = float64(c)
		}
	}
	return Counts{Vocab: vocab, Rows: rows}
}
