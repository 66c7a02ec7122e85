// Package linear_model provides linear classifiers trained from scratch.
package linear_model

import (
	"context"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/survivalml/core/model"
	"github.com/YuminosukeSato/survivalml/metrics"
	"github.com/YuminosukeSato/survivalml/pkg/errors"
	"github.com/YuminosukeSato/survivalml/pkg/log"
)

const (
	// DefaultLearningRate is the step size of the online update.
	DefaultLearningRate = 0.01
	// DefaultEpochs is the number of passes over the training set.
	DefaultEpochs = 1000

	// progressInterval is how often (in epochs) the training error is logged.
	progressInterval = 100

	modelName = "LogisticRegression"
)

// LogisticRegression is a binary logistic regression trained by online
// gradient ascent on the log-likelihood.
//
// Weights are stored with the bias at index 0, followed by one weight per
// feature. Every sample updates the weights immediately, so later samples in
// the same epoch see the already-updated weights. There is no regularization
// and no convergence check: Fit always runs the configured number of epochs.
type LogisticRegression struct {
	state *model.StateManager // State management (composition)

	// Hyperparameters
	learningRate float64
	epochs       int
	warmStart    bool // Continue from the current weights on the next Fit

	// Model parameters
	weights []float64 // [bias, w_1, ..., w_n]

	id     string
	logger log.Logger
}

// LogisticRegressionOption is a functional option for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a new LogisticRegression classifier
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		learningRate: DefaultLearningRate,
		epochs:       DefaultEpochs,
		id:           uuid.NewString(),
	}

	for _, opt := range opts {
		opt(lr)
	}

	if lr.logger == nil {
		lr.logger = log.GetLogger()
	}
	lr.logger = lr.logger.With(
		log.ModelNameKey, modelName,
		log.EstimatorIDKey, lr.id,
	)

	return lr
}

// WithLRLearningRate sets the learning rate
func WithLRLearningRate(rate float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.learningRate = rate
	}
}

// WithLREpochs sets the number of training epochs
func WithLREpochs(epochs int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.epochs = epochs
	}
}

// WithLRWarmStart keeps the weights of a previous Fit as the starting point
func WithLRWarmStart(warm bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.warmStart = warm
	}
}

// WithLRLogger sets the logger used for training progress
func WithLRLogger(logger log.Logger) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.logger = logger
	}
}

// Fit trains the model on X (one row per sample) and y (0.0 / 1.0 labels).
//
// An empty training set is a no-op. Rows and labels of different length
// return a DimensionError. If an epoch produces NaN or Inf weights, the
// weights of the previous epoch are kept and training stops with a warning.
func (lr *LogisticRegression) Fit(X [][]float64, y []float64) error {
	nSamples := len(X)
	if nSamples == 0 {
		lr.logger.Warn("Training data is empty, skipping fit",
			log.OperationKey, log.OperationFit,
			log.ErrorCodeKey, log.ErrorEmptyData,
		)
		return nil
	}
	if len(y) != nSamples {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, len(y), 0)
	}
	nFeatures := len(X[0])
	for _, row := range X {
		if len(row) != nFeatures {
			return errors.NewDimensionError("LogisticRegression.Fit", nFeatures, len(row), 1)
		}
	}

	if !lr.warmStart || len(lr.weights) != nFeatures+1 {
		lr.weights = make([]float64, nFeatures+1)
	}

	lr.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.LearningRateKey, lr.learningRate,
		log.EpochsKey, lr.epochs,
	)

	coef := lr.weights[1:]
	stable := make([]float64, len(lr.weights))
	for epoch := 0; epoch < lr.epochs; epoch++ {
		copy(stable, lr.weights)
		for i, xi := range X {
			pred := sigmoid(lr.weights[0] + floats.Dot(coef, xi))
			err := y[i] - pred
			lr.weights[0] += lr.learningRate * err
			floats.AddScaled(coef, lr.learningRate*err, xi)
		}

		// 発散したエポックは捨てて直前の重みで学習を打ち切る
		if err := errors.CheckNumericalStability("online_update", lr.weights, epoch); err != nil {
			copy(lr.weights, stable)
			lr.logger.Warn("Training stopped early",
				log.OperationKey, log.OperationFit,
				log.EpochKey, epoch,
				log.ErrAttrKey, err,
			)
			break
		}

		if epoch%progressInterval == 0 && lr.logger.Enabled(context.Background(), log.LevelDebug) {
			if mae, err := metrics.MAE(y, lr.PredictProba(X)); err == nil {
				lr.logger.Debug("Training progress",
					log.EpochKey, epoch,
					log.LossKey, mae,
				)
			}
		}
	}

	lr.state.SetFitted(nFeatures, nSamples)
	lr.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		"weights", lr.Weights(),
		"intercept", lr.Intercept(),
	)
	return nil
}

// decision returns bias + Σ w_j·x_j. Features beyond the trained width are
// ignored and an untrained model scores 0.
func (lr *LogisticRegression) decision(x []float64) float64 {
	if len(lr.weights) == 0 {
		return 0
	}
	coef := lr.weights[1:]
	n := len(x)
	if n > len(coef) {
		n = len(coef)
	}
	return lr.weights[0] + floats.Dot(coef[:n], x[:n])
}

// Predict returns 1.0 for rows whose probability is at least 0.5, else 0.0.
func (lr *LogisticRegression) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, xi := range X {
		if sigmoid(lr.decision(xi)) >= 0.5 {
			out[i] = 1.0
		}
	}
	return out
}

// PredictProba returns the probability of the positive class for each row.
func (lr *LogisticRegression) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, xi := range X {
		out[i] = sigmoid(lr.decision(xi))
	}
	return out
}

// PredictMatrix predicts labels for a gonum matrix, one sample per row.
func (lr *LogisticRegression) PredictMatrix(X mat.Matrix) (*mat.VecDense, error) {
	if err := lr.state.RequireFitted(modelName, "PredictMatrix"); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if nFeatures, _ := lr.state.Dimensions(); cols != nFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.PredictMatrix", nFeatures, cols, 1)
	}

	data := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		data[i] = mat.Row(nil, i, X)
	}
	return mat.NewVecDense(rows, lr.Predict(data)), nil
}

// Score returns the accuracy of Predict(X) against y.
func (lr *LogisticRegression) Score(X [][]float64, y []float64) (float64, error) {
	return metrics.Accuracy(y, lr.Predict(X))
}

// Weights returns a copy of the feature weights (bias excluded).
func (lr *LogisticRegression) Weights() []float64 {
	if len(lr.weights) == 0 {
		return nil
	}
	out := make([]float64, len(lr.weights)-1)
	copy(out, lr.weights[1:])
	return out
}

// Intercept returns the bias term.
func (lr *LogisticRegression) Intercept() float64 {
	if len(lr.weights) == 0 {
		return 0
	}
	return lr.weights[0]
}

// Name returns the model name used in logs and predictions.
func (lr *LogisticRegression) Name() string { return modelName }

// ID returns the unique estimator id.
func (lr *LogisticRegression) ID() string { return lr.id }

// IsFitted reports whether Fit has run on a non-empty training set.
func (lr *LogisticRegression) IsFitted() bool { return lr.state.IsFitted() }

// GetParams returns the hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"learning_rate": lr.learningRate,
		"epochs":        lr.epochs,
		"warm_start":    lr.warmStart,
	}
}

// sigmoid computes 1/(1+exp(-z)) without overflowing for large |z|.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1.0 / (1.0 + math.Exp(-z))
	}
	ez := math.Exp(z)
	return ez / (1.0 + ez)
}
