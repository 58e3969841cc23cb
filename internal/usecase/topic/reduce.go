package topic

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// Params sizes the reduction for a given number of sentences.
type Params struct {
	Neighbors  int
	Components int
}

// ParamsFor picks neighborhood size and output dimensionality.
// Fifteen or more sentences get 5 components over 15 neighbors;
// fewer get 2 components over max(2, n-1) neighbors.
// Both are clamped to what n samples can support.
func ParamsFor(n int) Params {
	p := Params{Neighbors: 15, Components: 5}
	if n < 15 {
		p = Params{Neighbors: max(2, n-1), Components: 2}
	}
	p.Neighbors = min(p.Neighbors, max(n-1, 1))
	p.Components = min(p.Components, max(n-1, 1))
	return p
}

var errDegenerate = errors.New("degenerate embedding matrix")

// reduce smooths every vector toward its nearest neighbors by cosine similarity,
// then projects onto the top principal components.
func reduce(vectors [][]float64, p Params) ([][]float64, error) {
	n := len(vectors)
	if n < 2 {
		return nil, fmt.Errorf("reduce %d vectors: %w", n, errDegenerate)
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim || dim == 0 {
			return nil, fmt.Errorf("vector %d has %d dims, want %d: %w", i, len(v), dim, errDegenerate)
		}
	}

	smoothed := smooth(vectors, p.Neighbors)
	return pca(smoothed, p.Components)
}

func smooth(vectors [][]float64, neighbors int) [][]float64 {
	n := len(vectors)
	unit := make([][]float64, n)
	for i, v := range vectors {
		unit[i] = normalize(v)
	}

	type scored struct {
		j   int
		sim float64
	}

	out := make([][]float64, n)
	for i := range unit {
		cands := make([]scored, 0, n-1)
		for j := range unit {
			if j != i {
				cands = append(cands, scored{j, domain.Cosine(unit[i], unit[j])})
			}
		}
		sort.SliceStable(cands, func(a, b int) bool { return cands[a].sim > cands[b].sim })

		acc := append([]float64(nil), unit[i]...)
		weight := 1.0
		// neighbors counts the point itself
		for _, c := range cands[:min(neighbors-1, len(cands))] {
			if c.sim <= 0 {
				break
			}
			for d, x := range unit[c.j] {
				acc[d] += c.sim * x
			}
			weight += c.sim
		}
		for d := range acc {
			acc[d] /= weight
		}
		out[i] = acc
	}
	return out
}

func pca(vectors [][]float64, components int) ([][]float64, error) {
	n, dim := len(vectors), len(vectors[0])

	mean := make([]float64, dim)
	for _, v := range vectors {
		for d, x := range v {
			mean[d] += x
		}
	}
	data := make([]float64, 0, n*dim)
	for _, v := range vectors {
		for d, x := range v {
			data = append(data, x-mean[d]/float64(n))
		}
	}
	x := mat.NewDense(n, dim, data)

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, fmt.Errorf("svd did not converge: %w", errDegenerate)
	}
	values := svd.Values(nil)
	if len(values) == 0 || values[0] < 1e-12 {
		return nil, fmt.Errorf("zero variance: %w", errDegenerate)
	}

	k := min(components, len(values))
	var v mat.Dense
	svd.VTo(&v)

	var y mat.Dense
	y.Mul(x, v.Slice(0, dim, 0, k))

	out := make([][]float64, n)
	for i := range out {
		out[i] = append([]float64(nil), y.RawRowView(i)...)
	}
	return out, nil
}

func normalize(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	out := make([]float64, len(v))
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
