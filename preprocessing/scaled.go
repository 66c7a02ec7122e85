package preprocessing

import (
	"github.com/YuminosukeSato/survivalml/core/model"
)

// ScaledClassifier は StandardScaler を通してから分類器に渡すラッパー
//
// 予測時の入力は元のスケールのまま渡せる。空の訓練データでは
// スケーラーを学習せず、分類器の Fit だけを呼ぶ。
type ScaledClassifier struct {
	scaler *StandardScaler
	inner  model.BinaryClassifier
}

// NewScaledClassifier は分類器を標準化付きでラップする
func NewScaledClassifier(inner model.BinaryClassifier) *ScaledClassifier {
	return &ScaledClassifier{scaler: NewStandardScalerDefault(), inner: inner}
}

// Fit はスケーラーを学習し、変換後のデータで分類器を学習する
func (c *ScaledClassifier) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return c.inner.Fit(X, y)
	}
	Xs, err := c.scaler.FitTransform(X)
	if err != nil {
		return err
	}
	return c.inner.Fit(Xs, y)
}

// transform は未学習のときや変換できないときに元の行をそのまま返す
func (c *ScaledClassifier) transform(X [][]float64) [][]float64 {
	if !c.scaler.IsFitted() {
		return X
	}
	Xs, err := c.scaler.Transform(X)
	if err != nil {
		return X
	}
	return Xs
}

// Predict は入力を標準化してから分類器のラベルを返す
func (c *ScaledClassifier) Predict(X [][]float64) []float64 {
	return c.inner.Predict(c.transform(X))
}

// PredictProba は入力を標準化してから分類器の確率を返す
func (c *ScaledClassifier) PredictProba(X [][]float64) []float64 {
	return c.inner.PredictProba(c.transform(X))
}

// Name は内側の分類器の名前を返す
func (c *ScaledClassifier) Name() string { return c.inner.Name() }

// IsFitted は内側の分類器が学習済みかどうかを返す
func (c *ScaledClassifier) IsFitted() bool { return c.inner.IsFitted() }

// Scaler は学習済みのスケーラーを返す
func (c *ScaledClassifier) Scaler() *StandardScaler { return c.scaler }
