package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/survivalml/pkg/errors"
)

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
//
// 学習中のロジスティック回帰の進捗表示にも使う。
func MAE(yTrue, yPred []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("MAE", n, len(yPred), 0)
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue[i] - yPred[i])
	}
	return sum / float64(n), nil
}

// BrierScore は予測確率と正解ラベルの平均二乗誤差を計算する
func BrierScore(yTrue, proba []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("BrierScore", "empty vector")
	}
	if len(proba) != n {
		return 0, errors.NewDimensionError("BrierScore", n, len(proba), 0)
	}

	// mat.VecDense を使い差分ベクトルの内積として計算する
	diff := mat.NewVecDense(n, nil)
	diff.SubVec(mat.NewVecDense(n, append([]float64(nil), yTrue...)), mat.NewVecDense(n, append([]float64(nil), proba...)))
	return mat.Dot(diff, diff) / float64(n), nil
}
