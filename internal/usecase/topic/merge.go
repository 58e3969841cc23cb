package topic

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// cluster is a group of sentence indices.
type cluster []int

// classDocs joins the sentences of every cluster into one document per class.
// A non-empty outlier group is appended as a last class so it still counts toward term frequencies.
func classDocs(sentences []string, clusters []cluster, outliers cluster) []string {
	docs := make([]string, 0, len(clusters)+1)
	for _, c := range clusters {
		docs = append(docs, joinSentences(sentences, c))
	}
	if len(outliers) > 0 {
		docs = append(docs, joinSentences(sentences, outliers))
	}
	return docs
}

func joinSentences(sentences []string, c cluster) string {
	parts := make([]string, len(c))
	for i, idx := range c {
		parts[i] = sentences[idx]
	}
	return strings.Join(parts, " ")
}

// mergeSimilar repeatedly folds the smaller of the most similar pair of clusters
// into the larger while their c-TF-IDF cosine reaches threshold.
func mergeSimilar(v *Vectorizer, sentences []string, clusters []cluster, outliers cluster, threshold float64) []cluster {
	for len(clusters) > 1 {
		weights := classTFIDF(v.Fit(classDocs(sentences, clusters, outliers)))

		bi, bj, best := -1, -1, threshold
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				if sim := domain.Cosine(weights[i], weights[j]); sim >= best {
					bi, bj, best = i, j, sim
				}
			}
		}
		if bi < 0 {
			break
		}

		keep, drop := bi, bj
		if len(clusters[bj]) > len(clusters[bi]) {
			keep, drop = bj, bi
		}
		merged := append(append(cluster(nil), clusters[keep]...), clusters[drop]...)
		sort.Ints(merged)
		clusters[keep] = merged
		clusters = append(clusters[:drop], clusters[drop+1:]...)
	}
	return clusters
}

// bySize orders clusters by descending size, then by first sentence.
func bySize(clusters []cluster) {
	sort.SliceStable(clusters, func(i, j int) bool {
		if len(clusters[i]) != len(clusters[j]) {
			return len(clusters[i]) > len(clusters[j])
		}
		return clusters[i][0] < clusters[j][0]
	})
}
