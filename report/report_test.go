package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"

	"github.com/YuminosukeSato/survivalml/pkg/errors"
)

func TestSaveAccuracyChart(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"accuracy.png", "accuracy.svg"} {
		path := filepath.Join(dir, name)
		err := SaveAccuracyChart(path, []Score{
			{Model: "LogisticRegression", Accuracy: 0.79},
			{Model: "StumpForest", Accuracy: 0.77},
		})
		require.NoError(t, err)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	var ve *errors.ValueError
	assert.True(t, errors.As(SaveAccuracyChart(filepath.Join(dir, "x.png"), nil), &ve))
}

func TestSaveProbabilityHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proba.png")
	proba := []float64{0.05, 0.12, 0.5, 0.55, 0.93, 1.0}
	labels := []float64{0, 0, 1, 0, 1, 1}

	require.NoError(t, SaveProbabilityHistogram(path, "LogisticRegression", proba, labels))
	_, err := os.Stat(path)
	assert.NoError(t, err)

	assert.Error(t, SaveProbabilityHistogram(path, "m", nil, nil))

	var lm *errors.LengthMismatchError
	assert.True(t, errors.As(SaveProbabilityHistogram(path, "m", proba, labels[:2]), &lm))
}

func TestBucket(t *testing.T) {
	survived, perished := Bucket(
		[]float64{0.0, 0.05, 0.15, 0.5, 0.99, 1.0, 1.2, -0.3},
		[]float64{0, 1, 0, 1, 1, 1, 0, 1},
		10,
	)

	assert.Equal(t, plotter.Values{2, 0, 0, 0, 0, 1, 0, 0, 0, 2}, survived)
	assert.Equal(t, plotter.Values{1, 1, 0, 0, 0, 0, 0, 0, 0, 1}, perished)
}

func TestBinNames(t *testing.T) {
	assert.Equal(t, []string{"0.0", "0.2", "0.4", "0.6", "0.8"}, binNames(5))
}
