// Package metrics は二値分類器の評価指標を提供する。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/survivalml/pkg/errors"
)

// LabelTolerance は2つのラベルを一致とみなす許容誤差
const LabelTolerance = 1e-6

// Accuracy は正解ラベルと予測ラベルが一致した割合を計算する
//
// どちらかが空の場合は 0.0 を返し、UndefinedMetricWarning を発生させる。
// 長さが異なる場合は LengthMismatchError を返す。
func Accuracy(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) == 0 || len(yPred) == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("accuracy", "empty input", 0.0))
		return 0.0, nil
	}
	if len(yTrue) != len(yPred) {
		return 0, errors.NewLengthMismatchError("Accuracy", len(yTrue), len(yPred))
	}

	correct := 0
	for i := range yTrue {
		if math.Abs(yTrue[i]-yPred[i]) < LabelTolerance {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// AccuracyMatrix は列ベクトル（n×1行列）形式の入力に対して Accuracy を計算する
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	a, err := columnToSlice("AccuracyMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	b, err := columnToSlice("AccuracyMatrix", yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(a, b)
}

func columnToSlice(op string, m mat.Matrix) ([]float64, error) {
	if m == nil {
		return nil, nil
	}
	r, c := m.Dims()
	if r == 0 {
		return nil, nil
	}
	if c != 1 {
		return nil, errors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		out[i] = m.At(i, 0)
	}
	return out, nil
}

// ConfusionMatrix は二値分類の混同行列
type ConfusionMatrix struct {
	TruePositive  int
	FalsePositive int
	TrueNegative  int
	FalseNegative int
}

// NewConfusionMatrix は 1.0 を陽性として混同行列を集計する
func NewConfusionMatrix(yTrue, yPred []float64) (ConfusionMatrix, error) {
	var cm ConfusionMatrix
	if len(yTrue) != len(yPred) {
		return cm, errors.NewLengthMismatchError("ConfusionMatrix", len(yTrue), len(yPred))
	}
	for i := range yTrue {
		actual := math.Abs(yTrue[i]-1.0) < LabelTolerance
		predicted := math.Abs(yPred[i]-1.0) < LabelTolerance
		switch {
		case actual && predicted:
			cm.TruePositive++
		case !actual && predicted:
			cm.FalsePositive++
		case actual && !predicted:
			cm.FalseNegative++
		default:
			cm.TrueNegative++
		}
	}
	return cm, nil
}

// Total は集計した件数
func (c ConfusionMatrix) Total() int {
	return c.TruePositive + c.FalsePositive + c.TrueNegative + c.FalseNegative
}

// Precision は TP / (TP + FP)。分母が0なら0を返す
func (c ConfusionMatrix) Precision() float64 {
	return errors.SafeDivide(float64(c.TruePositive), float64(c.TruePositive+c.FalsePositive))
}

// Recall は TP / (TP + FN)。分母が0なら0を返す
func (c ConfusionMatrix) Recall() float64 {
	return errors.SafeDivide(float64(c.TruePositive), float64(c.TruePositive+c.FalseNegative))
}

// F1 は Precision と Recall の調和平均
func (c ConfusionMatrix) F1() float64 {
	p, r := c.Precision(), c.Recall()
	return errors.SafeDivide(2*p*r, p+r)
}
