package pricing

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"ethical-pricing/utils"
)

// Regressor maps a feature vector to a numeric estimate.
type Regressor interface {
	Predict(features []float64) float64
}

// Trainer fits a Regressor on a feature matrix and its targets.
type Trainer func(features [][]float64, targets []float64) (Regressor, error)

// ForestOptions configures the random forest regressor.
type ForestOptions struct {
	Trees          int
	MaxDepth       int // 0 means unlimited
	MinSamplesLeaf int
	Seed           int64
	Workers        int
}

// DefaultForestOptions returns the settings the production model is trained with.
func DefaultForestOptions() ForestOptions {
	return ForestOptions{
		Trees:          200,
		MaxDepth:       10,
		MinSamplesLeaf: 1,
		Seed:           42,
		Workers:        4,
	}
}

// ForestTrainer returns a Trainer that fits a Forest with opts.
func ForestTrainer(opts ForestOptions) Trainer {
	return func(features [][]float64, targets []float64) (Regressor, error) {
		return TrainForest(features, targets, opts)
	}
}

// Forest is an ensemble of regression trees fit on bootstrap samples.
// The prediction is the mean of the tree predictions.
type Forest struct {
	trees []*tree
}

// TrainForest fits a Forest. The result depends only on the data, the seed and the
// tree settings; the number of workers does not change it.
func TrainForest(features [][]float64, targets []float64, opts ForestOptions) (*Forest, error) {
	if len(features) == 0 {
		return nil, errors.New("forest: no training rows")
	}
	if len(features) != len(targets) {
		return nil, fmt.Errorf("forest: %d feature rows but %d targets", len(features), len(targets))
	}
	if opts.Trees < 1 {
		return nil, fmt.Errorf("forest: trees must be positive, got %d", opts.Trees)
	}
	if opts.MinSamplesLeaf < 1 {
		opts.MinSamplesLeaf = 1
	}

	master := rand.New(rand.NewSource(opts.Seed))
	seeds := make([]int64, opts.Trees)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	trees := make([]*tree, opts.Trees)
	utils.NewWorkerPool(opts.Workers).Run(opts.Trees, func(i int) {
		rng := rand.New(rand.NewSource(seeds[i]))
		sample := make([]int, len(targets))
		for j := range sample {
			sample[j] = rng.Intn(len(targets))
		}
		b := &treeBuilder{
			features: features,
			targets:  targets,
			maxDepth: opts.MaxDepth,
			minLeaf:  opts.MinSamplesLeaf,
		}
		b.grow(sample, 0)
		trees[i] = &tree{nodes: b.nodes}
	})

	return &Forest{trees: trees}, nil
}

func (f *Forest) Predict(features []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(features)
	}
	return sum / float64(len(f.trees))
}

// Size returns the number of trees in the ensemble.
func (f *Forest) Size() int { return len(f.trees) }

type node struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      int
	right     int
}

// tree stores its nodes flat; index 0 is the root.
type tree struct {
	nodes []node
}

func (t *tree) predict(x []float64) float64 {
	i := 0
	for !t.nodes[i].leaf {
		n := t.nodes[i]
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
	return t.nodes[i].value
}

type treeBuilder struct {
	features [][]float64
	targets  []float64
	maxDepth int
	minLeaf  int
	nodes    []node
}

func (b *treeBuilder) grow(rows []int, depth int) int {
	var sum float64
	for _, r := range rows {
		sum += b.targets[r]
	}
	id := len(b.nodes)
	b.nodes = append(b.nodes, node{leaf: true, value: sum / float64(len(rows))})

	if b.maxDepth > 0 && depth >= b.maxDepth {
		return id
	}
	if len(rows) < 2*b.minLeaf || b.pure(rows) {
		return id
	}

	feature, threshold, ok := b.bestSplit(rows, sum)
	if !ok {
		return id
	}

	var left, right []int
	for _, r := range rows {
		if b.features[r][feature] <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	l := b.grow(left, depth+1)
	rt := b.grow(right, depth+1)
	b.nodes[id] = node{feature: feature, threshold: threshold, left: l, right: rt}
	return id
}

func (b *treeBuilder) pure(rows []int) bool {
	first := b.targets[rows[0]]
	for _, r := range rows[1:] {
		if b.targets[r] != first {
			return false
		}
	}
	return true
}

// bestSplit picks the split maximising sumL²/nL + sumR²/nR, which is equivalent to
// minimising the summed squared error of the two children.
func (b *treeBuilder) bestSplit(rows []int, total float64) (int, float64, bool) {
	n := len(rows)
	parent := total * total / float64(n)
	best := parent
	bestFeature, bestThreshold, found := 0, 0.0, false

	sorted := make([]int, n)
	for f := range b.features[rows[0]] {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.features[sorted[i]][f] < b.features[sorted[j]][f]
		})

		var leftSum float64
		for i := 0; i < n-1; i++ {
			leftSum += b.targets[sorted[i]]
			nl, nr := i+1, n-i-1
			if nl < b.minLeaf || nr < b.minLeaf {
				continue
			}
			xi, xn := b.features[sorted[i]][f], b.features[sorted[i+1]][f]
			if xi == xn {
				continue
			}
			rightSum := total - leftSum
			score := leftSum*leftSum/float64(nl) + rightSum*rightSum/float64(nr)
			if score > best {
				best = score
				bestFeature = f
				bestThreshold = (xi + xn) / 2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}
