// Package preprocessing provides feature scaling for the linear model.
package preprocessing

import (
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/survivalml/core/model"
	"github.com/YuminosukeSato/survivalml/pkg/errors"
)

// minScale 未満の標準偏差を持つ列は定数列として扱う
const minScale = 1e-8

// StandardScaler はデータを平均0、標準偏差1に変換する
type StandardScaler struct {
	state *model.StateManager

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差（母分散ベース）
	Scale []float64

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	XScaled, err := scaler.FitTransform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit は訓練データから統計情報（平均、標準偏差）を計算する
func (s *StandardScaler) Fit(X [][]float64) error {
	r := len(X)
	if r == 0 || len(X[0]) == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	c := len(X[0])
	for _, row := range X {
		if len(row) != c {
			return errors.NewDimensionError("StandardScaler.Fit", c, len(row), 1)
		}
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		for i, row := range X {
			col[i] = row[j]
		}
		// 母集団ベースの平均と標準偏差
		mean, std := stat.PopMeanStdDev(col, nil)
		if s.WithMean {
			s.Mean[j] = mean
		}

		s.Scale[j] = 1.0
		// 定数列はゼロ除算を避けるためスケール1のまま
		if s.WithStd && std >= minScale {
			s.Scale[j] = std
		}
	}

	s.state.SetFitted(c, r)
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if err := s.state.RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.Mean) {
			return nil, errors.NewDimensionError("StandardScaler.Transform", len(s.Mean), len(row), 1)
		}
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = (v - s.Mean[j]) / s.Scale[j]
		}
	}
	return out, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X [][]float64) ([][]float64, error) {
	if err := s.state.RequireFitted("StandardScaler", "InverseTransform"); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.Mean) {
			return nil, errors.NewDimensionError("StandardScaler.InverseTransform", len(s.Mean), len(row), 1)
		}
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = v*s.Scale[j] + s.Mean[j]
		}
	}
	return out, nil
}

// IsFitted はスケーラーが学習済みかどうかを返す
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}
