package topic

import (
	"math"
	"sort"
)

// noise is the label of points no cluster claims.
const noise = -1

// minLambdaDistance keeps 1/distance finite for duplicate points.
const minLambdaDistance = 1e-12

// hdbscan clusters points by density: mutual reachability distances, a minimum
// spanning tree, the condensed cluster hierarchy and excess-of-mass selection.
// Labels are 0..k-1 in no particular order; unclustered points get noise.
// The root is never selected, so a single blob yields no clusters.
func hdbscan(points [][]float64, minClusterSize, minSamples int) []int {
	n := len(points)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = noise
	}
	if n < 2*minClusterSize {
		return labels
	}

	edges := mutualReachabilityMST(points, minSamples)
	tree := singleLinkage(n, edges)
	condensed := condense(tree, n, minClusterSize)
	selected := selectEOM(condensed)
	return assign(condensed, selected, n)
}

type edge struct {
	a, b int
	w    float64
}

func euclidean(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}

// mutualReachabilityMST runs Prim's algorithm over the complete mutual reachability graph.
func mutualReachabilityMST(points [][]float64, minSamples int) []edge {
	n := len(points)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := euclidean(points[i], points[j])
			dist[i][j], dist[j][i] = d, d
		}
	}

	// core distance: distance to the minSamples-th nearest point, the point itself
	// included (row[0] is the self distance 0)
	k := min(max(minSamples, 1)-1, n-1)
	core := make([]float64, n)
	row := make([]float64, n)
	for i := range dist {
		copy(row, dist[i])
		sort.Float64s(row)
		core[i] = row[k]
	}

	mr := func(i, j int) float64 {
		return max(dist[i][j], core[i], core[j])
	}

	inTree := make([]bool, n)
	best := make([]float64, n)
	from := make([]int, n)
	for i := range best {
		best[i] = math.Inf(1)
	}

	edges := make([]edge, 0, n-1)
	cur := 0
	inTree[cur] = true
	for len(edges) < n-1 {
		next, nextW := -1, math.Inf(1)
		for j := 0; j < n; j++ {
			if inTree[j] {
				continue
			}
			if w := mr(cur, j); w < best[j] {
				best[j], from[j] = w, cur
			}
			if best[j] < nextW {
				next, nextW = j, best[j]
			}
		}
		inTree[next] = true
		edges = append(edges, edge{a: from[next], b: next, w: nextW})
		cur = next
	}
	return edges
}

// linkNode is a merge in the single-linkage dendrogram.
// Leaves are 0..n-1, merges n..2n-2 in order of increasing distance.
type linkNode struct {
	left, right int
	dist        float64
	size        int
}

func singleLinkage(n int, edges []edge) []linkNode {
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].w < edges[j].w })

	parent := make([]int, 2*n-1)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	size := make([]int, 2*n-1)
	for i := 0; i < n; i++ {
		size[i] = 1
	}

	tree := make([]linkNode, 0, n-1)
	for _, e := range edges {
		ra, rb := find(e.a), find(e.b)
		id := n + len(tree)
		size[id] = size[ra] + size[rb]
		tree = append(tree, linkNode{left: ra, right: rb, dist: e.w, size: size[id]})
		parent[ra], parent[rb] = id, id
	}
	return tree
}

// condensedEntry is a row of the condensed tree: child (a point or a cluster)
// leaves parent cluster at lambda.
type condensedEntry struct {
	parent, child int
	lambda        float64
	size          int
	isCluster     bool
}

type condensedTree struct {
	entries  []condensedEntry
	root     int
	clusters int
}

func lambdaOf(dist float64) float64 {
	return 1 / max(dist, minLambdaDistance)
}

// condense walks the dendrogram top-down. A split where both sides hold at least
// minClusterSize points births two clusters; otherwise the small side's points
// fall out of the current cluster and the large side keeps its label.
func condense(tree []linkNode, n, minClusterSize int) condensedTree {
	ct := condensedTree{root: 0, clusters: 1}

	nodeSize := func(id int) int {
		if id < n {
			return 1
		}
		return tree[id-n].size
	}

	var leaves func(id int, out []int) []int
	leaves = func(id int, out []int) []int {
		stack := []int{id}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top < n {
				out = append(out, top)
				continue
			}
			stack = append(stack, tree[top-n].left, tree[top-n].right)
		}
		return out
	}

	type frame struct {
		node, cluster int
	}
	rootNode := n + len(tree) - 1
	stack := []frame{{rootNode, ct.root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node < n {
			continue
		}
		link := tree[f.node-n]
		lambda := lambdaOf(link.dist)
		l, r := link.left, link.right
		ls, rs := nodeSize(l), nodeSize(r)

		switch {
		case ls >= minClusterSize && rs >= minClusterSize:
			for _, side := range []struct{ node, size int }{{l, ls}, {r, rs}} {
				id := ct.clusters
				ct.clusters++
				ct.entries = append(ct.entries, condensedEntry{
					parent: f.cluster, child: id, lambda: lambda, size: side.size, isCluster: true,
				})
				stack = append(stack, frame{side.node, id})
			}
		case ls < minClusterSize && rs < minClusterSize:
			for _, p := range leaves(l, leaves(r, nil)) {
				ct.entries = append(ct.entries, condensedEntry{parent: f.cluster, child: p, lambda: lambda, size: 1})
			}
		default:
			small, big := l, r
			if ls >= minClusterSize {
				small, big = r, l
			}
			for _, p := range leaves(small, nil) {
				ct.entries = append(ct.entries, condensedEntry{parent: f.cluster, child: p, lambda: lambda, size: 1})
			}
			stack = append(stack, frame{big, f.cluster})
		}
	}
	return ct
}

// selectEOM picks the clusters maximizing total stability, never the root.
func selectEOM(ct condensedTree) map[int]bool {
	birth := make([]float64, ct.clusters)
	children := make([][]int, ct.clusters)
	for _, e := range ct.entries {
		if e.isCluster {
			birth[e.child] = e.lambda
			children[e.parent] = append(children[e.parent], e.child)
		}
	}

	stability := make([]float64, ct.clusters)
	for _, e := range ct.entries {
		stability[e.parent] += (e.lambda - birth[e.parent]) * float64(e.size)
	}

	selected := make(map[int]bool)
	// children always carry larger ids than their parent
	for c := ct.clusters - 1; c > ct.root; c-- {
		if len(children[c]) == 0 {
			selected[c] = true
			continue
		}
		var sum float64
		for _, ch := range children[c] {
			sum += stability[ch]
		}
		if sum > stability[c] {
			stability[c] = sum
			continue
		}
		selected[c] = true
		unselectDescendants(children, c, selected)
	}
	return selected
}

func unselectDescendants(children [][]int, c int, selected map[int]bool) {
	stack := append([]int(nil), children[c]...)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		delete(selected, top)
		stack = append(stack, children[top]...)
	}
}

// assign labels each point with the selected cluster that contains it.
func assign(ct condensedTree, selected map[int]bool, n int) []int {
	parentOf := make([]int, ct.clusters)
	parentOf[ct.root] = -1
	pointCluster := make([]int, n)
	for _, e := range ct.entries {
		if e.isCluster {
			parentOf[e.child] = e.parent
		} else {
			pointCluster[e.child] = e.parent
		}
	}

	ids := make([]int, 0, len(selected))
	for c := range selected {
		ids = append(ids, c)
	}
	sort.Ints(ids)
	label := make(map[int]int, len(ids))
	for i, c := range ids {
		label[c] = i
	}

	labels := make([]int, n)
	for p := range labels {
		labels[p] = noise
		for c := pointCluster[p]; c >= 0; c = parentOf[c] {
			if l, ok := label[c]; ok {
				labels[p] = l
				break
			}
		}
	}
	return labels
}
