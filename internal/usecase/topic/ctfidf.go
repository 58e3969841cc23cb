package topic

import (
	"math"
	"sort"
)

// classTFIDF weights a class-by-term count matrix:
// W(t,c) = tf(t,c) * log(1 + A / f(t)), where tf is L1-normalized per class,
// A is the mean number of words per class and f(t) the frequency of t across classes.
func classTFIDF(c Counts) [][]float64 {
	if len(c.Rows) == 0 || len(c.Vocab) == 0 {
		return make([][]float64, len(c.Rows))
	}

	freq := make([]float64, len(c.Vocab))
	var total float64
	for _, row := range c.Rows {
		for j, x := range row {
			freq[j] += x
			total += x
		}
	}
	avg := total / float64(len(c.Rows))

	idf := make([]float64, len(c.Vocab))
	for j, f := range freq {
		if f > 0 {
			idf[j] = math.Log(1 + avg/f)
		}
	}

	out := make([][]float64, len(c.Rows))
	for i, row := range c.Rows {
		var sum float64
		for _, x := range row {
			sum += x
		}
		w := make([]float64, len(row))
		if sum > 0 {
			for j, x := range row {
				w[j] = x / sum * idf[j]
			}
		}
		out[i] = w
	}
	return out
}

// topTerms returns up to n vocabulary terms with the highest positive weight.
// Ties keep vocabulary order.
func topTerms(vocab []string, weights []float64, n int) []string {
	idx := make([]int, 0, len(weights))
	for j, w := range weights {
		if w > 0 {
			idx = append(idx, j)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool { return weights[idx[a]] > weights[idx[b]] })
	if len(idx) > n {
		idx = idx[:n]
	}
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = vocab[j]
	}
	return out
}
