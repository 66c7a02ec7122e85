// Standard attribute keys for pipeline logging. Keys are hierarchical
// ("model.name", "data.samples") so log output can be filtered by prefix.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the model type, e.g. "LogisticRegression".
	ModelNameKey = "model.name"

	// EstimatorIDKey is a unique id for one model instance.
	EstimatorIDKey = "estimator.id"

	// OperationKey is the operation being performed ("fit", "predict", ...).
	OperationKey = "ml.operation"

	// ComponentKey names the package doing the work.
	ComponentKey = "ml.component"

	// PhaseKey is the lifecycle phase ("training", "inference", ...).
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	SkippedKey  = "data.skipped"
	ImputedKey  = "data.imputed"
	SourceKey   = "data.source"
	FeatureKey  = "data.feature"
)

// Column statistics.
const (
	MeanKey = "stats.mean"
	StdKey  = "stats.std"
	MinKey  = "stats.min"
	MaxKey  = "stats.max"
)

// Metrics and training progress.
const (
	DurationMsKey = "perf.duration_ms"
	AccuracyKey   = "metrics.accuracy"
	LossKey       = "metrics.loss"
	EpochKey      = "training.epoch"
	TreesKey      = "training.trees"
	SplitCountKey = "training.split_counts"
	MedianAgeKey  = "data.median_age"
	TestRatioKey  = "split.test_ratio"
)

// Prediction context.
const (
	ConfidenceKey = "preds.confidence"
	ThresholdKey  = "preds.threshold"
	PredsKey      = "preds.count"
)

// Hyperparameters.
const (
	LearningRateKey = "hyperparams.learning_rate"
	EpochsKey       = "hyperparams.epochs"
	RandomSeedKey   = "config.random_seed"
)

// Error context.
const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "error.stacktrace"
	ErrorCodeKey      = "error.code"
)

// Standard attribute values.
const (
	OperationIngest  = "ingest"
	OperationSplit   = "split"
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"

	PhasePreprocessing = "preprocessing"
	PhaseTraining      = "training"
	PhaseTesting       = "testing"
	PhaseInference     = "inference"

	ErrorEmptyData      = "EMPTY_DATA"
	ErrorLengthMismatch = "LENGTH_MISMATCH"
	ErrorInvalidInput   = "INVALID_INPUT"
)
