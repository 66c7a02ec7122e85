// Package model defines the estimator contracts shared by the classifiers.
package model

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる。空の入力は何もしない。
	Fit(X [][]float64, y []float64) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は各行に対して 0.0 / 1.0 のラベルを返す
	Predict(X [][]float64) []float64
}

// BinaryClassifier は二値分類器のインターフェース
type BinaryClassifier interface {
	Fitter
	Predictor

	// PredictProba は各行が陽性である確率を返す
	PredictProba(X [][]float64) []float64

	// Name はログや予測結果に使うモデル名を返す
	Name() string

	// IsFitted はモデルが学習済みかどうかを返す
	IsFitted() bool
}
