package indexer

// linkGraph is the adjacency structure over the indexed corpus: one
// vertex per document ordinal, out-edges only to targets that are
// themselves indexed. Self-loops are kept; parallel edges collapse.
type linkGraph struct {
	out [][]int
}

// buildLinkGraph resolves each document's outgoing links through the
// url -> ordinal mapping, dropping links that point outside the corpus
// and deduplicating out-edges per source in first-seen order.
func buildLinkGraph(docs []Document, ordinals map[string]int) *linkGraph {
	g := &linkGraph{out: make([][]int, len(docs))}
	for i, doc := range docs {
		seen := make(map[int]struct{})
		for _, link := range doc.LinksFound {
			target, ok := ordinals[link]
			if !ok {
				continue
			}
			if _, dup := seen[target]; dup {
				continue
			}
			seen[target] = struct{}{}
			g.out[i] = append(g.out[i], target)
		}
	}
	return g
}

// pagerank runs the damped random-surfer iteration for a fixed number of
// rounds and min-max normalizes the result to [0,1].
//
// Dangling vertices (no out-edges) leak their mass each round rather
// than redistributing it, and the vector is not renormalized before the
// final scaling; both behaviors are intentional and relied on by the
// scores persisted in existing indexes.
func pagerank(g *linkGraph, damping float64, iterations int) []float64 {
	n := len(g.out)
	if n == 0 {
		return nil
	}

	pr := make([]float64, n)
	for i := range pr {
		pr[i] = 1.0 / float64(n)
	}

	base := (1 - damping) / float64(n)
	for iter := 0; iter < iterations; iter++ {
		next := make([]float64, n)
		for i := range next {
			next[i] = base
		}
		for u, targets := range g.out {
			if len(targets) == 0 {
				continue
			}
			share := damping * pr[u] / float64(len(targets))
			for _, v := range targets {
				next[v] += share
			}
		}
		pr = next
	}

	return minMaxNormalize(pr)
}

// minMaxNormalize rescales vs to [0,1]. A degenerate vector (all values
// equal) collapses to all zeros.
func minMaxNormalize(vs []float64) []float64 {
	if len(vs) == 0 {
		return vs
	}
	min, max := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(vs))
	if max == min {
		return out
	}
	for i, v := range vs {
		out[i] = (v - min) / (max - min)
	}
	return out
}
