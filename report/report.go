// Package report draws evaluation charts with gonum/plot.
//
// The output format follows the file extension (.png, .svg, .pdf, ...).
package report

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/survivalml/pkg/errors"
)

// ProbabilityBins is the number of buckets the probability chart uses on [0, 1].
const ProbabilityBins = 10

var (
	survivedColor = color.RGBA{R: 46, G: 139, B: 87, A: 255}
	perishedColor = color.RGBA{R: 178, G: 34, B: 34, A: 255}
	accuracyColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}
)

// Score is one model's accuracy on the test set.
type Score struct {
	Model    string
	Accuracy float64
}

// SaveAccuracyChart draws one bar per model.
func SaveAccuracyChart(path string, scores []Score) error {
	if len(scores) == 0 {
		return errors.NewValueError("SaveAccuracyChart", "no scores to draw")
	}

	values := make(plotter.Values, len(scores))
	names := make([]string, len(scores))
	for i, s := range scores {
		values[i] = s.Accuracy
		names[i] = s.Model
	}

	p := plot.New()
	p.Title.Text = "Test accuracy"
	p.Y.Label.Text = "accuracy"
	p.Y.Min = 0
	p.Y.Max = 1

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return errors.Wrap(err, "failed to build accuracy bars")
	}
	bars.Color = accuracyColor
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(4*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save chart %s", path)
	}
	return nil
}

// SaveProbabilityHistogram draws the predicted survival probabilities as two
// grouped bar series, one for passengers labeled 1 and one for label 0.
func SaveProbabilityHistogram(path, model string, proba, labels []float64) error {
	if len(proba) == 0 {
		return errors.NewValueError("SaveProbabilityHistogram", "no probabilities to draw")
	}
	if len(proba) != len(labels) {
		return errors.NewLengthMismatchError("SaveProbabilityHistogram", len(proba), len(labels))
	}

	survived, perished := Bucket(proba, labels, ProbabilityBins)

	p := plot.New()
	p.Title.Text = model + " predicted probability"
	p.X.Label.Text = "P(survived)"
	p.Y.Label.Text = "passengers"

	w := vg.Points(10)
	survivedBars, err := plotter.NewBarChart(survived, w)
	if err != nil {
		return errors.Wrap(err, "failed to build histogram bars")
	}
	survivedBars.Color = survivedColor
	survivedBars.Offset = -w / 2

	perishedBars, err := plotter.NewBarChart(perished, w)
	if err != nil {
		return errors.Wrap(err, "failed to build histogram bars")
	}
	perishedBars.Color = perishedColor
	perishedBars.Offset = w / 2

	p.Add(survivedBars, perishedBars)
	p.Legend.Add("survived", survivedBars)
	p.Legend.Add("perished", perishedBars)
	p.Legend.Top = true
	p.NominalX(binNames(ProbabilityBins)...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save chart %s", path)
	}
	return nil
}

// Bucket counts probabilities into n equal-width bins on [0, 1], split by
// label. A probability of exactly 1 falls into the last bin.
func Bucket(proba, labels []float64, n int) (survived, perished plotter.Values) {
	survived = make(plotter.Values, n)
	perished = make(plotter.Values, n)
	for i, pr := range proba {
		if math.IsNaN(pr) {
			continue
		}
		b := int(errors.ClipValue(pr, 0, 1) * float64(n))
		if b >= n {
			b = n - 1
		}
		if labels[i] >= 0.5 {
			survived[b]++
		} else {
			perished[b]++
		}
	}
	return survived, perished
}

func binNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = strconv.FormatFloat(float64(i)/float64(n), 'f', 1, 64)
	}
	return names
}
