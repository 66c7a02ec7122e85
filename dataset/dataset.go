// Package dataset は乗客データの読み込み・前処理と、特徴量行列 DataSet を提供する。
package dataset

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/survivalml/pkg/errors"
)

// NumFeatures は1乗客あたりの特徴量数
const NumFeatures = 7

// 特徴量ベクトル内の列インデックス
const (
	ColClass = iota
	ColSex
	ColAge
	ColFare
	ColSibSp
	ColParch
	ColFamilySize
)

// FeatureNames は特徴量ベクトルの列名（順序は列インデックスと一致）
var FeatureNames = [NumFeatures]string{"pclass", "sex", "age", "fare", "sibsp", "parch", "family_size"}

// DataSet は特徴量ベクトルとラベルの組
//
// Features[i] と Labels[i] が1乗客に対応する。作成後は変更しない。
type DataSet struct {
	Features [][]float64
	Labels   []float64
}

// New は長さと列数を検証して DataSet を作成する
//
// 戻り値:
//   - *DataSet: 作成された DataSet
//   - error: 行数が一致しない場合は LengthMismatchError、列数が揃っていない場合は DimensionError
func New(features [][]float64, labels []float64) (*DataSet, error) {
	if len(features) != len(labels) {
		return nil, errors.NewLengthMismatchError("dataset.New", len(features), len(labels))
	}
	if len(features) > 0 {
		width := len(features[0])
		for _, row := range features {
			if len(row) != width {
				return nil, errors.NewDimensionError("dataset.New", width, len(row), 1)
			}
		}
	}
	return &DataSet{Features: features, Labels: labels}, nil
}

// Empty は行を持たない DataSet を返す
func Empty() *DataSet {
	return &DataSet{Features: [][]float64{}, Labels: []float64{}}
}

// Len は行数を返す
func (d *DataSet) Len() int {
	return len(d.Features)
}

// NumCols は列数を返す（空の場合は0）
func (d *DataSet) NumCols() int {
	if len(d.Features) == 0 {
		return 0
	}
	return len(d.Features[0])
}

// Subset は指定インデックスの行をコピーした新しい DataSet を返す
func (d *DataSet) Subset(indices []int) *DataSet {
	out := &DataSet{
		Features: make([][]float64, 0, len(indices)),
		Labels:   make([]float64, 0, len(indices)),
	}
	for _, i := range indices {
		row := make([]float64, len(d.Features[i]))
		copy(row, d.Features[i])
		out.Features = append(out.Features, row)
		out.Labels = append(out.Labels, d.Labels[i])
	}
	return out
}

// PositiveRate はラベルが 1.0 の割合を返す（空の場合は0）
func (d *DataSet) PositiveRate() float64 {
	return errors.SafeDivide(floats.Sum(d.Labels), float64(len(d.Labels)))
}

// Matrix は gonum の行列形式に変換する
//
// gonum は0次元の行列を扱えないため、空の DataSet では nil を返す。
func (d *DataSet) Matrix() (*mat.Dense, *mat.VecDense) {
	n, c := d.Len(), d.NumCols()
	if n == 0 || c == 0 {
		return nil, nil
	}
	X := mat.NewDense(n, c, nil)
	for i, row := range d.Features {
		X.SetRow(i, row)
	}
	labels := make([]float64, n)
	copy(labels, d.Labels)
	return X, mat.NewVecDense(n, labels)
}

// FeatureSummary は1列分の記述統計
type FeatureSummary struct {
	Name string
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// Describe は列ごとの平均・標準偏差・最小・最大を返す
func (d *DataSet) Describe() []FeatureSummary {
	c := d.NumCols()
	if c == 0 {
		return nil
	}
	out := make([]FeatureSummary, c)
	col := make([]float64, d.Len())
	for j := 0; j < c; j++ {
		for i, row := range d.Features {
			col[i] = row[j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		name := ""
		if j < NumFeatures {
			name = FeatureNames[j]
		}
		out[j] = FeatureSummary{
			Name: name,
			Mean: mean,
			Std:  std,
			Min:  floats.Min(col),
			Max:  floats.Max(col),
		}
	}
	return out
}
