package heatmap

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MaxClusterRows bounds the O(n^2) distance matrix built by LeafOrder.
const MaxClusterRows = 3000

// LeafOrder returns the dendrogram leaf order of an average-linkage hierarchical
// clustering of vectors under Euclidean distance. It uses the nearest-neighbor chain
// algorithm. Inputs longer than MaxClusterRows keep their order.
func LeafOrder(vectors [][]float64) []int {
	n := len(vectors)
	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}
	if n < 3 || n > MaxClusterRows {
		return identity
	}

	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := floats.Distance(vectors[i], vectors[j], 2)
			if math.IsNaN(v) {
				v = math.MaxFloat64
			}
			d[i][j], d[j][i] = v, v
		}
	}

	// tree nodes: 0..n-1 are leaves, internal nodes follow
	left := make([]int, n, 2*n-1)
	right := make([]int, n, 2*n-1)
	size := make([]float64, n)
	node := make([]int, n) // tree node currently held by each active slot
	active := make([]bool, n)
	for i := range node {
		node[i], size[i], active[i] = i, 1, true
	}

	var chain []int
	for remaining := n; remaining > 1; {
		if len(chain) == 0 {
			for i := range active {
				if active[i] {
					chain = append(chain, i)
					break
				}
			}
		}
		a := chain[len(chain)-1]
		prev := -1
		if len(chain) > 1 {
			prev = chain[len(chain)-2]
		}

		b, best := prev, math.Inf(1)
		if prev >= 0 {
			best = d[a][prev]
		}
		for k := range active {
			if active[k] && k != a && d[a][k] < best {
				b, best = k, d[a][k]
			}
		}
		if b < 0 { // every remaining distance is +Inf
			for k := range active {
				if active[k] && k != a {
					b = k
					break
				}
			}
		}

		if b != prev {
			chain = append(chain, b)
			continue
		}

		chain = chain[:len(chain)-2]
		for k := range active {
			if active[k] && k != a && k != b {
				v := (size[a]*d[a][k] + size[b]*d[b][k]) / (size[a] + size[b])
				d[a][k], d[k][a] = v, v
			}
		}
		left = append(left, node[a])
		right = append(right, node[b])
		node[a] = len(left) - 1
		size[a] += size[b]
		active[b] = false
		remaining--
	}

	root := -1
	for i := range active {
		if active[i] {
			root = node[i]
		}
	}

	order := make([]int, 0, n)
	stack := []int{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if v < n {
			order = append(order, v)
			continue
		}
		stack = append(stack, right[v], left[v])
	}
	return order
}
