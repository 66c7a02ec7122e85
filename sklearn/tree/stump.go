// Package tree provides the depth-1 decision tree used by the stump ensemble.
package tree

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/survivalml/core/parallel"
)

// MaxCandidates sets the sampling step: candidates are taken every
// len/MaxCandidates sorted values, which gives ceil(len/step) thresholds
// (10 to 19 per column). Columns with fewer rows than this are not
// considered for splitting.
const MaxCandidates = 10

// parallelColumnThreshold is the column count above which the scan runs in
// parallel.
const parallelColumnThreshold = 4

// DecisionStump is a single-split decision tree.
//
// Rows whose value at FeatureIndex is <= Threshold get LeftLabel, the others
// RightLabel. A stump is fixed once trained.
type DecisionStump struct {
	FeatureIndex int
	Threshold    float64
	LeftLabel    float64
	RightLabel   float64
}

// StumpOption is a functional option for TrainStump
type StumpOption func(*stumpConfig)

type stumpConfig struct {
	features []int
}

// WithFeatures restricts the split search to the given columns, scanned in
// the order given.
func WithFeatures(features []int) StumpOption {
	return func(c *stumpConfig) {
		c.features = features
	}
}

// split is the best threshold found on one column.
type split struct {
	ok         bool
	gain       float64
	threshold  float64
	leftLabel  float64
	rightLabel float64
}

// TrainStump finds the (feature, threshold) pair with the largest Gini gain.
//
// For each column the sorted values are sampled every count/10 positions to
// form the candidate thresholds, between 10 and 19 of them. Candidates that leave one side empty are
// skipped. Ties keep the first pair found, in column order and then in
// ascending threshold order. An empty training set returns the zero stump.
// y must hold one label per row of X.
func TrainStump(X [][]float64, y []float64, opts ...StumpOption) DecisionStump {
	if len(X) == 0 {
		return DecisionStump{}
	}

	cfg := &stumpConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	features := cfg.features
	if features == nil {
		features = make([]int, len(X[0]))
		for j := range features {
			features[j] = j
		}
	}

	parent := parentImpurity(y)
	splits := parallel.MapOrdered(len(features), parallelColumnThreshold, func(i int) split {
		return bestSplit(X, y, features[i], parent)
	})

	// 列順に縮約して、同点の場合は先に見つかった列を残す
	best := DecisionStump{}
	bestGain := -1.0
	for i, s := range splits {
		if s.ok && s.gain > bestGain {
			bestGain = s.gain
			best = DecisionStump{
				FeatureIndex: features[i],
				Threshold:    s.threshold,
				LeftLabel:    s.leftLabel,
				RightLabel:   s.rightLabel,
			}
		}
	}
	return best
}

// bestSplit scans the sampled thresholds of one column.
func bestSplit(X [][]float64, y []float64, f int, parent float64) split {
	vals := make([]float64, len(X))
	for i, row := range X {
		vals[i] = row[f]
	}
	sort.Float64s(vals)

	step := len(vals) / MaxCandidates
	if step == 0 {
		return split{}
	}

	best := split{gain: -1.0}
	for i := 0; i < len(vals); i += step {
		t := vals[i]

		var leftTotal, rightTotal, leftPos, rightPos float64
		for r, row := range X {
			if row[f] <= t {
				leftTotal++
				leftPos += y[r]
			} else {
				rightTotal++
				rightPos += y[r]
			}
		}
		if leftTotal == 0 || rightTotal == 0 {
			continue
		}

		leftAvg := leftPos / leftTotal
		rightAvg := rightPos / rightTotal
		weighted := (leftTotal*gini(leftAvg) + rightTotal*gini(rightAvg)) / (leftTotal + rightTotal)
		gain := parent - weighted

		if gain > best.gain {
			best = split{
				ok:         true,
				gain:       gain,
				threshold:  t,
				leftLabel:  label(leftAvg),
				rightLabel: label(rightAvg),
			}
		}
	}
	return best
}

// parentImpurity is 1 - p² for the positive rate p of the whole training set.
func parentImpurity(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	p := floats.Sum(y) / float64(len(y))
	return 1 - p*p
}

func gini(avg float64) float64 {
	return 1 - avg*avg - (1-avg)*(1-avg)
}

func label(rate float64) float64 {
	if rate >= 0.5 {
		return 1.0
	}
	return 0.0
}

// Predict returns the label for one feature vector. An empty vector, or one
// too short to hold the split feature, predicts 0.
func (s DecisionStump) Predict(x []float64) float64 {
	if len(x) == 0 || s.FeatureIndex >= len(x) {
		return 0.0
	}
	if x[s.FeatureIndex] <= s.Threshold {
		return s.LeftLabel
	}
	return s.RightLabel
}
