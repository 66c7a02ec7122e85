// Package ensemble provides the majority-vote ensemble of decision stumps.
package ensemble

import (
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/survivalml/core/model"
	"github.com/YuminosukeSato/survivalml/pkg/errors"
	"github.com/YuminosukeSato/survivalml/pkg/log"
	"github.com/YuminosukeSato/survivalml/sklearn/tree"
)

const (
	// DefaultNEstimators is the number of stumps trained by Fit.
	DefaultNEstimators = 10

	// progressInterval is how often (in stumps) training progress is logged.
	progressInterval = 5

	modelName = "StumpForest"
)

// StumpForest is an ensemble of decision stumps that predicts by majority
// vote.
//
// By default every stump is trained on the identical full training set, so
// all stumps come out the same and the ensemble behaves like a single stump.
// WithBootstrap and WithMaxFeatures switch on seeded row resampling and
// column subsampling per stump.
type StumpForest struct {
	state *model.StateManager

	// Hyperparameters
	nEstimators int
	bootstrap   bool
	maxFeatures int // 0 means all columns
	randomState int64

	stumps []tree.DecisionStump

	id     string
	logger log.Logger
}

// StumpForestOption is a functional option for StumpForest
type StumpForestOption func(*StumpForest)

// NewStumpForest creates a new StumpForest
func NewStumpForest(opts ...StumpForestOption) *StumpForest {
	f := &StumpForest{
		state:       model.NewStateManager(),
		nEstimators: DefaultNEstimators,
		id:          uuid.NewString(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = log.GetLogger()
	}
	f.logger = f.logger.With(
		log.ModelNameKey, modelName,
		log.EstimatorIDKey, f.id,
	)
	return f
}

// WithNEstimators sets the number of stumps
func WithNEstimators(n int) StumpForestOption {
	return func(f *StumpForest) {
		f.nEstimators = n
	}
}

// WithBootstrap trains each stump on a bootstrap sample drawn with the given seed
func WithBootstrap(seed int64) StumpForestOption {
	return func(f *StumpForest) {
		f.bootstrap = true
		f.randomState = seed
	}
}

// WithMaxFeatures limits each stump to k randomly chosen columns.
// The seed set by WithBootstrap or WithForestRandomState is used.
func WithMaxFeatures(k int) StumpForestOption {
	return func(f *StumpForest) {
		f.maxFeatures = k
	}
}

// WithForestRandomState sets the seed for bootstrap and column sampling
func WithForestRandomState(seed int64) StumpForestOption {
	return func(f *StumpForest) {
		f.randomState = seed
	}
}

// WithForestLogger sets the logger used for training progress
func WithForestLogger(logger log.Logger) StumpForestOption {
	return func(f *StumpForest) {
		f.logger = logger
	}
}

// Fit trains nEstimators stumps. An empty training set is a no-op.
// Every call replaces the stumps of a previous Fit.
func (f *StumpForest) Fit(X [][]float64, y []float64) error {
	nSamples := len(X)
	if nSamples == 0 {
		f.logger.Warn("Training data is empty, skipping fit",
			log.OperationKey, log.OperationFit,
			log.ErrorCodeKey, log.ErrorEmptyData,
		)
		return nil
	}
	if len(y) != nSamples {
		return errors.NewDimensionError("StumpForest.Fit", nSamples, len(y), 0)
	}
	nFeatures := len(X[0])
	for _, row := range X {
		if len(row) != nFeatures {
			return errors.NewDimensionError("StumpForest.Fit", nFeatures, len(row), 1)
		}
	}
	if f.maxFeatures < 0 || f.maxFeatures > nFeatures {
		return errors.NewValidationError("max_features", "must be in [0, n_features]", f.maxFeatures)
	}

	f.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, nSamples,
		log.TreesKey, f.nEstimators,
	)

	rng := rand.New(rand.NewSource(f.randomState))
	f.stumps = make([]tree.DecisionStump, 0, f.nEstimators)
	for i := 0; i < f.nEstimators; i++ {
		Xb, yb := X, y
		if f.bootstrap {
			Xb, yb = bootstrapSample(rng, X, y)
		}
		var opts []tree.StumpOption
		if f.maxFeatures > 0 {
			opts = append(opts, tree.WithFeatures(sampleFeatures(rng, nFeatures, f.maxFeatures)))
		}

		f.stumps = append(f.stumps, tree.TrainStump(Xb, yb, opts...))

		if (i+1)%progressInterval == 0 {
			f.logger.Debug("Training progress", log.TreesKey, i+1)
		}
	}

	f.state.SetFitted(nFeatures, nSamples)
	f.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.TreesKey, len(f.stumps),
	)
	return nil
}

// bootstrapSample draws len(X) rows with replacement.
func bootstrapSample(rng *rand.Rand, X [][]float64, y []float64) ([][]float64, []float64) {
	n := len(X)
	Xb := make([][]float64, n)
	yb := make([]float64, n)
	for i := 0; i < n; i++ {
		j := rng.Intn(n)
		Xb[i] = X[j]
		yb[i] = y[j]
	}
	return Xb, yb
}

// sampleFeatures picks k distinct columns, returned in ascending order so
// ties still resolve to the lowest column.
func sampleFeatures(rng *rand.Rand, nFeatures, k int) []int {
	idx := rng.Perm(nFeatures)[:k]
	sort.Ints(idx)
	return idx
}

// vote returns the fraction of stumps predicting 1 for x, or 0 without stumps.
func (f *StumpForest) vote(x []float64) float64 {
	if len(f.stumps) == 0 {
		return 0.0
	}
	var votes float64
	for _, s := range f.stumps {
		votes += s.Predict(x)
	}
	return votes / float64(len(f.stumps))
}

// Predict returns 1.0 where at least half of the stumps vote 1.
func (f *StumpForest) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(f.stumps) == 0 {
		return out
	}
	for i, xi := range X {
		if f.vote(xi) >= 0.5 {
			out[i] = 1.0
		}
	}
	return out
}

// PredictProba returns the fraction of stumps voting 1 for each row.
func (f *StumpForest) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, xi := range X {
		out[i] = f.vote(xi)
	}
	return out
}

// PredictMatrix predicts labels for a gonum matrix, one sample per row.
func (f *StumpForest) PredictMatrix(X mat.Matrix) (*mat.VecDense, error) {
	if err := f.state.RequireFitted(modelName, "PredictMatrix"); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if nFeatures, _ := f.state.Dimensions(); cols != nFeatures {
		return nil, errors.NewDimensionError("StumpForest.PredictMatrix", nFeatures, cols, 1)
	}

	data := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		data[i] = mat.Row(nil, i, X)
	}
	return mat.NewVecDense(rows, f.Predict(data)), nil
}

// Stumps returns a copy of the trained stumps in training order.
func (f *StumpForest) Stumps() []tree.DecisionStump {
	out := make([]tree.DecisionStump, len(f.stumps))
	copy(out, f.stumps)
	return out
}

// FeatureCounts returns how many stumps split on each column.
func (f *StumpForest) FeatureCounts() []int {
	nFeatures, _ := f.state.Dimensions()
	counts := make([]int, nFeatures)
	for _, s := range f.stumps {
		if s.FeatureIndex < nFeatures {
			counts[s.FeatureIndex]++
		}
	}
	return counts
}

// Name returns the model name used in logs and predictions.
func (f *StumpForest) Name() string { return modelName }

// ID returns the unique estimator id.
func (f *StumpForest) ID() string { return f.id }

// IsFitted reports whether Fit has run on a non-empty training set.
func (f *StumpForest) IsFitted() bool { return f.state.IsFitted() }

// GetParams returns the hyperparameters.
func (f *StumpForest) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators": f.nEstimators,
		"bootstrap":    f.bootstrap,
		"max_features": f.maxFeatures,
		"random_state": f.randomState,
	}
}
