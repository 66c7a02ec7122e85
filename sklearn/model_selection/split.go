// Package model_selection は学習用・評価用データの分割を提供する。
package model_selection

import (
	"math"
	"math/rand"

	"github.com/YuminosukeSato/survivalml/dataset"
	"github.com/YuminosukeSato/survivalml/pkg/errors"
)

// SplitOption is a functional option for TrainTestSplit
type SplitOption func(*splitConfig)

type splitConfig struct {
	shuffle bool
	seed    int64
}

// WithShuffle はシード付きの並べ替えで評価用の行を選ぶ
//
// 既定では先頭から test_size 行を評価用にする。出力の行の相対順序はどちらでも保たれる。
func WithShuffle(seed int64) SplitOption {
	return func(c *splitConfig) {
		c.shuffle = true
		c.seed = seed
	}
}

// TrainTestSplit は DataSet を学習用と評価用に分割する
//
// test_size = floor(n * testRatio)。既定ではインデックス 0..test_size-1 が評価用、
// 残りが学習用になる。n == 0 の場合は空の DataSet を2つ返す。
//
// パラメータ:
//   - ds: 分割する DataSet
//   - testRatio: 評価用の割合 [0, 1]
//
// 戻り値:
//   - train, test: 分割後の DataSet（行はコピーされる）
//   - error: testRatio が範囲外の場合は ValidationError
func TrainTestSplit(ds *dataset.DataSet, testRatio float64, opts ...SplitOption) (train, test *dataset.DataSet, err error) {
	if math.IsNaN(testRatio) || testRatio < 0 || testRatio > 1 {
		return nil, nil, errors.NewValidationError("test_ratio", "must be in [0, 1]", testRatio)
	}

	cfg := &splitConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	n := 0
	if ds != nil {
		n = ds.Len()
	}
	if n == 0 {
		return dataset.Empty(), dataset.Empty(), nil
	}

	testIdx, trainIdx := splitIndices(n, testRatio, cfg)
	return ds.Subset(trainIdx), ds.Subset(testIdx), nil
}

// splitIndices は評価用と学習用のインデックスを昇順で返す
func splitIndices(n int, testRatio float64, cfg *splitConfig) (testIdx, trainIdx []int) {
	testSize := int(math.Floor(float64(n) * testRatio))
	if testSize > n {
		testSize = n
	}

	inTest := make([]bool, n)
	if cfg != nil && cfg.shuffle {
		rng := rand.New(rand.NewSource(cfg.seed))
		perm := rng.Perm(n)
		for _, i := range perm[:testSize] {
			inTest[i] = true
		}
	} else {
		// 先頭から i % n で選ぶので、実質的に 0..test_size-1 になる
		for i := 0; i < testSize; i++ {
			inTest[i%n] = true
		}
	}

	testIdx = make([]int, 0, testSize)
	trainIdx = make([]int, 0, n-testSize)
	for i := 0; i < n; i++ {
		if inTest[i] {
			testIdx = append(testIdx, i)
		} else {
			trainIdx = append(trainIdx, i)
		}
	}
	return testIdx, trainIdx
}
