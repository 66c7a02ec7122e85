package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/survivalml/config"
	"github.com/YuminosukeSato/survivalml/dataset"
	"github.com/YuminosukeSato/survivalml/pkg/errors"
	"github.com/YuminosukeSato/survivalml/pkg/log"
)

// writePassengers は1等客だけが生存する n 行の CSV を書き出す
func writePassengers(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("survived,pclass,name,sex,age,fare,sibsp,parch\n")
	for i := 0; i < n; i++ {
		class := 1 + i%3
		survived := 0
		if class == 1 {
			survived = 1
		}
		age := fmt.Sprintf("%d", 20+i%30)
		if i%7 == 0 {
			age = ""
		}
		sex := "male"
		if i%2 == 0 {
			sex = "female"
		}
		fmt.Fprintf(&b, "%d,%d,\"Passenger, No. %d\",%s,%s,%d,%d,%d\n",
			survived, class, i, sex, age, 90/class, i%2, i%3)
	}
	b.WriteString("truncated,row\n")

	path := filepath.Join(t.TempDir(), "titanic.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func testConfig(path string) config.Config {
	cfg := config.Default()
	cfg.Data.Path = path
	cfg.Logistic.Epochs = 200
	return cfg
}

func quietLogger() log.Logger {
	l, _ := log.NewTestLogger(log.LevelError)
	return l
}

func TestRun(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	logger, _ := log.NewTestLogger(log.LevelInfo)
	res, err := Run(context.Background(), testConfig(writePassengers(t, 40)), logger)
	require.NoError(t, err)

	assert.Equal(t, 40, res.Ingest.RowsUsed)
	assert.Equal(t, 1, res.Ingest.RowsSkipped)
	assert.Equal(t, 8, res.Test.Len())
	assert.Equal(t, 32, res.Train.Len())

	require.Len(t, res.Scores, 2)
	assert.Equal(t, "LogisticRegression", res.Scores[0].Model)
	assert.Equal(t, "StumpForest", res.Scores[1].Model)
	for _, s := range res.Scores {
		assert.GreaterOrEqual(t, s.Accuracy, 0.0)
		assert.LessOrEqual(t, s.Accuracy, 1.0)
		assert.Equal(t, res.Test.Len(), s.Confusion.Total())
	}

	// 客室等級で完全に分離できるので stump は全問正解
	acc, ok := res.Accuracy("StumpForest")
	require.True(t, ok)
	assert.Equal(t, 1.0, acc)

	// 列統計と stump が選んだ列
	require.Len(t, res.Summary, dataset.NumFeatures)
	assert.Equal(t, "pclass", res.Summary[dataset.ColClass].Name)
	assert.Equal(t, 1.0, res.Summary[dataset.ColClass].Min)
	assert.Equal(t, 3.0, res.Summary[dataset.ColClass].Max)
	require.Len(t, res.SplitCounts, dataset.NumFeatures)
	assert.Equal(t, config.Default().Forest.NTrees, res.SplitCounts[dataset.ColClass])
	assert.True(t, logger.ContainsMessage("Forest split features"))

	assert.True(t, logger.ContainsMessage("Pipeline completed"))
	assert.True(t, logger.ContainsField(log.ModelNameKey, "StumpForest"))

	// 欠損年齢の補完は警告として報告される
	var found bool
	for _, w := range warnings {
		var dc *errors.DataConversionWarning
		if errors.As(w, &dc) && dc.Field == "age" {
			found = true
			assert.Equal(t, res.Ingest.Defaulted["age"], dc.Count)
		}
	}
	assert.True(t, found, "expected a DataConversionWarning for age")
}

func TestRun_LogsFeatureSummary(t *testing.T) {
	errors.SetWarningHandler(func(error) {})

	logger, _ := log.NewTestLogger(log.LevelDebug)
	_, err := Run(context.Background(), testConfig(writePassengers(t, 20)), logger)
	require.NoError(t, err)

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	summaries := 0
	for _, e := range entries {
		if e["message"] == "Feature summary" {
			summaries++
		}
	}
	assert.Equal(t, dataset.NumFeatures, summaries)
	assert.True(t, logger.ContainsField(log.FeatureKey, "family_size"))
}

func TestRun_MalformedFieldsFallBackToDefaults(t *testing.T) {
	errors.SetWarningHandler(func(error) {})

	path := writePassengers(t, 30)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	messy := string(data) +
		"NaN,1,\"Messy, A\",male,Inf,NaN,0,0\n" +
		"2,2,\"Messy, B\",female,-Inf,10,+Inf,0\n"
	require.NoError(t, os.WriteFile(path, []byte(messy), 0o600))

	res, err := Run(context.Background(), testConfig(path), quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 32, res.Ingest.RowsUsed)
	assert.Equal(t, 2, res.Ingest.Defaulted["survived"])
	for _, l := range append(append([]float64(nil), res.Train.Labels...), res.Test.Labels...) {
		assert.Contains(t, []float64{0, 1}, l)
	}
	for _, s := range res.Scores {
		assert.False(t, math.IsNaN(s.Brier), "Brier score of %s is NaN", s.Model)
	}
}

func TestRun_ServicePredicts(t *testing.T) {
	errors.SetWarningHandler(func(error) {})

	res, err := Run(context.Background(), testConfig(writePassengers(t, 30)), quietLogger())
	require.NoError(t, err)

	first, err := NewPassenger(1, "female", 30, 90, 0, 0)
	require.NoError(t, err)
	preds, err := res.Service.Predict(first)
	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, []string{"LogisticRegression", "StumpForest"}, res.Service.Models())

	forest := preds[1]
	assert.True(t, forest.Survived())
	assert.Equal(t, 1.0, forest.Probability)

	third, err := NewPassenger(3, "male", 30, 30, 0, 0)
	require.NoError(t, err)
	preds, err = res.Service.Predict(third)
	require.NoError(t, err)
	assert.False(t, preds[1].Survived())
	for _, p := range preds {
		assert.GreaterOrEqual(t, p.Probability, 0.0)
		assert.LessOrEqual(t, p.Probability, 1.0)
	}
}

func TestRun_Report(t *testing.T) {
	errors.SetWarningHandler(func(error) {})

	cfg := testConfig(writePassengers(t, 30))
	cfg.Report.Path = filepath.Join(t.TempDir(), "charts")

	res, err := Run(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	require.Len(t, res.Charts, 3)
	for _, path := range res.Charts {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestRun_ShuffleAndBootstrap(t *testing.T) {
	errors.SetWarningHandler(func(error) {})

	cfg := testConfig(writePassengers(t, 50))
	cfg.Split.Shuffle = true
	cfg.Split.Seed = 3
	cfg.Forest.Bootstrap = true
	cfg.Forest.MaxFeatures = 3
	cfg.Forest.Seed = 3

	a, err := Run(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	b, err := Run(context.Background(), cfg, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, a.Test.Labels, b.Test.Labels)
	assert.Equal(t, a.Scores, b.Scores)
}

func TestRun_Standardize(t *testing.T) {
	errors.SetWarningHandler(func(error) {})

	cfg := testConfig(writePassengers(t, 40))
	cfg.Logistic.Standardize = true
	cfg.Logistic.LearningRate = 0.1

	res, err := Run(context.Background(), cfg, quietLogger())
	require.NoError(t, err)

	// 標準化しても予測結果の並びとモデル名は変わらない
	assert.Equal(t, []string{"LogisticRegression", "StumpForest"}, res.Service.Models())
	acc, ok := res.Accuracy("LogisticRegression")
	require.True(t, ok)
	assert.Equal(t, 1.0, acc)
}

func TestRun_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Run(context.Background(), testConfig(filepath.Join(t.TempDir(), "none.csv")), quietLogger())
		var ie *errors.IngestError
		assert.True(t, errors.As(err, &ie), "expected IngestError, got %v", err)
	})

	t.Run("header only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.csv")
		require.NoError(t, os.WriteFile(path, []byte("survived,pclass\n"), 0o600))
		_, err := Run(context.Background(), testConfig(path), quietLogger())
		assert.True(t, errors.Is(err, errors.ErrNoUsableRows))
	})

	t.Run("cancelled", func(t *testing.T) {
		errors.SetWarningHandler(func(error) {})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Run(ctx, testConfig(writePassengers(t, 20)), quietLogger())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestService_Predict(t *testing.T) {
	svc := NewService()

	_, err := svc.Predict([]float64{1, 2, 3})
	var de *errors.DimensionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, dataset.NumFeatures, de.Expected)

	preds, err := svc.Predict(make([]float64, dataset.NumFeatures))
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestNewPassenger(t *testing.T) {
	tests := []struct {
		name    string
		class   int
		sex     string
		want    []float64
		wantErr bool
	}{
		{name: "male", class: 3, sex: "male", want: []float64{3, 0, 22, 7.25, 1, 0, 2}},
		{name: "male upper case", class: 3, sex: " MALE ", want: []float64{3, 0, 22, 7.25, 1, 0, 2}},
		{name: "female", class: 1, sex: "female", want: []float64{1, 1, 22, 7.25, 1, 0, 2}},
		{name: "other", class: 2, sex: "x", want: []float64{2, 1, 22, 7.25, 1, 0, 2}},
		{name: "class too low", class: 0, sex: "male", wantErr: true},
		{name: "class too high", class: 4, sex: "male", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPassenger(tt.class, tt.sex, 22, 7.25, 1, 0)
			if tt.wantErr {
				var ve *errors.ValidationError
				assert.True(t, errors.As(err, &ve))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NewPassenger(1, "male", -1, 0, 0, 0)
	assert.Error(t, err)
	_, err = NewPassenger(1, "male", 1, 0, -1, 0)
	assert.Error(t, err)
}
