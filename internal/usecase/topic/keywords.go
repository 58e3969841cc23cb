package topic

import (
	"sort"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// representativeCount is how many sentences define a topic's centroid.
const representativeCount = 5

// centroid averages the embeddings of the cluster's sentences closest to the cluster mean.
func centroid(vectors [][]float64, c cluster) []float64 {
	mean := meanOf(vectors, c)
	if len(c) <= representativeCount {
		return mean
	}

	ranked := append(cluster(nil), c...)
	sort.SliceStable(ranked, func(a, b int) bool {
		return domain.Cosine(vectors[ranked[a]], mean) > domain.Cosine(vectors[ranked[b]], mean)
	})
	return meanOf(vectors, ranked[:representativeCount])
}

func meanOf(vectors [][]float64, c cluster) []float64 {
	if len(c) == 0 {
		return nil
	}
	out := make([]float64, len(vectors[c[0]]))
	for _, idx := range c {
		for d, x := range vectors[idx] {
			out[d] += x
		}
	}
	for d := range out {
		out[d] /= float64(len(c))
	}
	return out
}

// rerank orders candidate keywords by cosine similarity of their embedding to the
// topic centroid and keeps the top n. Ties keep c-TF-IDF order.
func rerank(candidates []string, embeddings map[string][]float64, center []float64, n int) []string {
	type scored struct {
		word string
		sim  float64
	}
	list := make([]scored, 0, len(candidates))
	for _, w := range candidates {
		if emb, ok := embeddings[w]; ok {
			list = append(list, scored{w, domain.Cosine(emb, center)})
		}
	}
	sort.SliceStable(list, func(a, b int) bool { return list[a].sim > list[b].sim })
	if len(list) > n {
		list = list[:n]
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.word
	}
	return out
}
