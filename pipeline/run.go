package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/survivalml/config"
	"github.com/YuminosukeSato/survivalml/core/model"
	"github.com/YuminosukeSato/survivalml/dataset"
	"github.com/YuminosukeSato/survivalml/metrics"
	"github.com/YuminosukeSato/survivalml/pkg/errors"
	"github.com/YuminosukeSato/survivalml/pkg/log"
	"github.com/YuminosukeSato/survivalml/preprocessing"
	"github.com/YuminosukeSato/survivalml/report"
	"github.com/YuminosukeSato/survivalml/sklearn/ensemble"
	"github.com/YuminosukeSato/survivalml/sklearn/linear_model"
	"github.com/YuminosukeSato/survivalml/sklearn/model_selection"
)

// ModelScore is the test-set evaluation of one model.
type ModelScore struct {
	Model     string
	Accuracy  float64
	Brier     float64 // 0 when the test set is empty
	Confusion metrics.ConfusionMatrix
}

// Result is everything Run produced.
type Result struct {
	Ingest  dataset.IngestReport
	Summary []dataset.FeatureSummary // per-column statistics of the ingested data
	Train   *dataset.DataSet
	Test    *dataset.DataSet
	Scores  []ModelScore
	// SplitCounts is how many forest stumps split on each feature column.
	SplitCounts []int
	Service     *Service
	Charts      []string // files written by the report stage
}

// Accuracy returns the accuracy recorded for the named model.
func (r *Result) Accuracy(modelName string) (float64, bool) {
	for _, s := range r.Scores {
		if s.Model == modelName {
			return s.Accuracy, true
		}
	}
	return 0, false
}

// Run reads cfg.Data.Path, trains both models and evaluates them on the
// held-out split. Cancellation of ctx is checked between stages.
func Run(ctx context.Context, cfg config.Config, logger log.Logger) (res *Result, err error) {
	defer errors.Recover(&err, "pipeline.Run")

	if logger == nil {
		logger = log.GetLogger()
	}
	logger = logger.With(log.ComponentKey, "pipeline")
	start := time.Now()

	// 1. 取り込み
	logger.Info("Loading data", log.OperationKey, log.OperationIngest, log.SourceKey, cfg.Data.Path)
	rows, err := dataset.OpenRecords(cfg.Data.Path)
	if err != nil {
		logger.Error("Ingest failed", err, log.OperationKey, log.OperationIngest)
		return nil, err
	}
	ds, ingest, err := dataset.IngestWithReport(rows)
	if err != nil {
		logger.Error("Ingest failed", err, log.OperationKey, log.OperationIngest)
		return nil, err
	}
	reportDefaults(ingest)
	logger.Info("Data loaded",
		log.OperationKey, log.OperationIngest,
		log.PhaseKey, log.PhasePreprocessing,
		log.SamplesKey, ds.Len(),
		log.SkippedKey, ingest.RowsSkipped,
		log.ImputedKey, ingest.Defaulted["age"],
		log.MedianAgeKey, ingest.MedianAge,
	)
	summary := ds.Describe()
	for _, f := range summary {
		logger.Debug("Feature summary",
			log.FeatureKey, f.Name,
			log.MeanKey, f.Mean,
			log.StdKey, f.Std,
			log.MinKey, f.Min,
			log.MaxKey, f.Max,
		)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. 分割
	var splitOpts []model_selection.SplitOption
	if cfg.Split.Shuffle {
		splitOpts = append(splitOpts, model_selection.WithShuffle(cfg.Split.Seed))
	}
	train, test, err := model_selection.TrainTestSplit(ds, cfg.Split.TestRatio, splitOpts...)
	if err != nil {
		return nil, err
	}
	logger.Info("Data split",
		log.OperationKey, log.OperationSplit,
		log.TestRatioKey, cfg.Split.TestRatio,
		"train.samples", train.Len(),
		"test.samples", test.Len(),
	)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. 学習
	lr := linear_model.NewLogisticRegression(
		linear_model.WithLRLearningRate(cfg.Logistic.LearningRate),
		linear_model.WithLREpochs(cfg.Logistic.Epochs),
		linear_model.WithLRLogger(logger),
	)
	forestOpts := []ensemble.StumpForestOption{
		ensemble.WithNEstimators(cfg.Forest.NTrees),
		ensemble.WithForestRandomState(cfg.Forest.Seed),
		ensemble.WithMaxFeatures(cfg.Forest.MaxFeatures),
		ensemble.WithForestLogger(logger),
	}
	if cfg.Forest.Bootstrap {
		forestOpts = append(forestOpts, ensemble.WithBootstrap(cfg.Forest.Seed))
	}
	forest := ensemble.NewStumpForest(forestOpts...)

	var linear model.BinaryClassifier = lr
	if cfg.Logistic.Standardize {
		linear = preprocessing.NewScaledClassifier(lr)
	}
	classifiers := []model.BinaryClassifier{linear, forest}
	for _, m := range classifiers {
		if err := m.Fit(train.Features, train.Labels); err != nil {
			logger.Error("Training failed", err, log.ModelNameKey, m.Name())
			return nil, errors.Wrapf(err, "fit %s", m.Name())
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	splitCounts := forest.FeatureCounts()
	logger.Info("Forest split features", log.ModelNameKey, forest.Name(), log.SplitCountKey, splitCounts)

	// 4. 評価
	res = &Result{
		Ingest:      ingest,
		Summary:     summary,
		Train:       train,
		Test:        test,
		SplitCounts: splitCounts,
		Service:     NewService(classifiers...),
	}
	probas := make(map[string][]float64, len(classifiers))
	for _, m := range classifiers {
		score, proba, err := evaluate(m, test)
		if err != nil {
			return nil, err
		}
		probas[m.Name()] = proba
		res.Scores = append(res.Scores, score)
		logger.Info("Model evaluated",
			log.OperationKey, log.OperationScore,
			log.PhaseKey, log.PhaseTesting,
			log.ModelNameKey, m.Name(),
			log.AccuracyKey, score.Accuracy,
			log.LossKey, score.Brier,
		)
	}

	// 5. レポート
	if cfg.Report.Path != "" {
		// 描画中の panic も警告に留め、学習結果は返す
		err := errors.SafeExecute("pipeline.report", func() error {
			charts, err := writeCharts(cfg.Report.Path, res.Scores, probas, test.Labels)
			res.Charts = charts
			return err
		})
		if err != nil {
			logger.Warn("Report failed", log.ErrAttrKey, err)
		}
	}

	logger.Info("Pipeline completed", log.DurationMsKey, time.Since(start).Milliseconds())
	return res, nil
}

// matrixPredictor is a model that can predict directly from a gonum matrix.
type matrixPredictor interface {
	PredictMatrix(X mat.Matrix) (*mat.VecDense, error)
}

func evaluate(m model.BinaryClassifier, test *dataset.DataSet) (ModelScore, []float64, error) {
	score := ModelScore{Model: m.Name()}
	proba := m.PredictProba(test.Features)

	preds, err := predictLabels(m, test)
	if err != nil {
		return score, nil, err
	}
	if score.Confusion, err = metrics.NewConfusionMatrix(test.Labels, preds); err != nil {
		return score, nil, err
	}
	if test.Len() > 0 {
		if score.Accuracy, err = metrics.AccuracyMatrix(
			mat.NewVecDense(test.Len(), append([]float64(nil), test.Labels...)),
			mat.NewVecDense(len(preds), preds),
		); err != nil {
			return score, nil, err
		}
		if score.Brier, err = metrics.BrierScore(test.Labels, proba); err != nil {
			return score, nil, err
		}
	} else if score.Accuracy, err = metrics.Accuracy(test.Labels, preds); err != nil {
		return score, nil, err
	}
	return score, proba, nil
}

// predictLabels goes through the gonum matrix path when the model supports it.
func predictLabels(m model.BinaryClassifier, test *dataset.DataSet) ([]float64, error) {
	mp, ok := m.(matrixPredictor)
	X, _ := test.Matrix()
	if !ok || X == nil || !m.IsFitted() {
		return m.Predict(test.Features), nil
	}
	pv, err := mp.PredictMatrix(X)
	if err != nil {
		return nil, err
	}
	return mat.Col(nil, 0, pv), nil
}

// reportDefaults raises one DataConversionWarning per field that had values
// replaced by defaults, in field name order.
func reportDefaults(r dataset.IngestReport) {
	fields := make([]string, 0, len(r.Defaulted))
	for f := range r.Defaulted {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		reason := "missing or unparsable"
		if f == "age" {
			reason = "missing age imputed with the median"
		}
		errors.Warn(errors.NewDataConversionWarning(f, r.Defaulted[f], reason))
	}
}

func writeCharts(dir string, scores []ModelScore, probas map[string][]float64, labels []float64) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create report directory %s", dir)
	}

	points := make([]report.Score, len(scores))
	for i, s := range scores {
		points[i] = report.Score{Model: s.Model, Accuracy: s.Accuracy}
	}

	var written []string
	path := filepath.Join(dir, "accuracy.png")
	if err := report.SaveAccuracyChart(path, points); err != nil {
		return written, err
	}
	written = append(written, path)

	if len(labels) == 0 {
		return written, nil
	}
	for _, s := range scores {
		path := filepath.Join(dir, s.Model+"_probability.png")
		if err := report.SaveProbabilityHistogram(path, s.Model, probas[s.Model], labels); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
