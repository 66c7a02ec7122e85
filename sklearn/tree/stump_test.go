package tree

import (
	"reflect"
	"testing"
)

func column(vals ...float64) [][]float64 {
	X := make([][]float64, len(vals))
	for i, v := range vals {
		X[i] = []float64{v}
	}
	return X
}

// TestTrainStump_SeparatesTwoGroups tests a column with a clean split
func TestTrainStump_SeparatesTwoGroups(t *testing.T) {
	X := column(1, 1, 1, 1, 1, 5, 5, 5, 5, 5)
	y := []float64{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}

	s := TrainStump(X, y)

	if s.FeatureIndex != 0 {
		t.Errorf("FeatureIndex = %d, want 0", s.FeatureIndex)
	}
	if s.Threshold < 1 || s.Threshold >= 5 {
		t.Errorf("Threshold = %v, want in [1, 5)", s.Threshold)
	}
	if s.LeftLabel != 0 || s.RightLabel != 1 {
		t.Errorf("labels = (%v, %v), want (0, 1)", s.LeftLabel, s.RightLabel)
	}
	for i, row := range X {
		if got := s.Predict(row); got != y[i] {
			t.Errorf("Predict(%v) = %v, want %v", row, got, y[i])
		}
	}
}

// TestTrainStump_TooFewRows tests that columns with fewer than 10 rows are not scanned
func TestTrainStump_TooFewRows(t *testing.T) {
	s := TrainStump(column(1, 1, 1, 5, 5, 5), []float64{0, 0, 0, 1, 1, 1})
	if s != (DecisionStump{}) {
		t.Errorf("expected zero stump, got %+v", s)
	}
}

func TestTrainStump_Empty(t *testing.T) {
	s := TrainStump(nil, nil)
	want := DecisionStump{FeatureIndex: 0, Threshold: 0, LeftLabel: 0, RightLabel: 0}
	if s != want {
		t.Errorf("TrainStump(nil) = %+v, want zero stump", s)
	}
}

func TestTrainStump_PicksInformativeColumn(t *testing.T) {
	// 列0はラベルと無関係、列1は完全に分離する
	X := make([][]float64, 10)
	y := make([]float64, 10)
	for i := range X {
		X[i] = []float64{float64(i % 2), float64(i)}
		if i >= 5 {
			y[i] = 1
		}
	}

	s := TrainStump(X, y)
	if s.FeatureIndex != 1 {
		t.Fatalf("FeatureIndex = %d, want 1", s.FeatureIndex)
	}
	if s.Threshold != 4 {
		t.Errorf("Threshold = %v, want 4", s.Threshold)
	}
}

func TestTrainStump_TieKeepsFirstColumn(t *testing.T) {
	// 2列が同一なら先の列が選ばれる
	X := make([][]float64, 10)
	y := make([]float64, 10)
	for i := range X {
		v := float64(i)
		X[i] = []float64{v, v}
		if i >= 5 {
			y[i] = 1
		}
	}

	s := TrainStump(X, y)
	if s.FeatureIndex != 0 || s.Threshold != 4 {
		t.Errorf("got %+v, want feature 0 threshold 4", s)
	}
}

func TestTrainStump_ParallelMatchesSequential(t *testing.T) {
	X := make([][]float64, 40)
	y := make([]float64, 40)
	for i := range X {
		X[i] = []float64{
			float64(i % 3),
			float64((i * 7) % 11),
			float64(i % 5),
			float64(i),
			float64(40 - i),
			float64((i * 13) % 17),
		}
		if (i*7)%11 > 5 {
			y[i] = 1
		}
	}

	full := TrainStump(X, y)

	// 1列ずつ逐次に評価して同じ結果になることを確認する
	seq := DecisionStump{}
	bestGain := -1.0
	parent := parentImpurity(y)
	for f := 0; f < 6; f++ {
		s := bestSplit(X, y, f, parent)
		if s.ok && s.gain > bestGain {
			bestGain = s.gain
			seq = DecisionStump{FeatureIndex: f, Threshold: s.threshold, LeftLabel: s.leftLabel, RightLabel: s.rightLabel}
		}
	}
	if full != seq {
		t.Errorf("parallel %+v != sequential %+v", full, seq)
	}
}

func TestTrainStump_WithFeatures(t *testing.T) {
	X := make([][]float64, 10)
	y := make([]float64, 10)
	for i := range X {
		X[i] = []float64{float64(i), float64(i % 2)}
		if i >= 5 {
			y[i] = 1
		}
	}

	s := TrainStump(X, y, WithFeatures([]int{1}))
	if s.FeatureIndex != 1 {
		t.Errorf("FeatureIndex = %d, want 1 (only allowed column)", s.FeatureIndex)
	}
}

func TestDecisionStump_Predict(t *testing.T) {
	s := DecisionStump{FeatureIndex: 2, Threshold: 30, LeftLabel: 1, RightLabel: 0}

	tests := []struct {
		name string
		x    []float64
		want float64
	}{
		{"left", []float64{1, 0, 20}, 1},
		{"on threshold goes left", []float64{1, 0, 30}, 1},
		{"right", []float64{1, 0, 31}, 0},
		{"empty vector", []float64{}, 0},
		{"too short", []float64{1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Predict(tt.x); got != tt.want {
				t.Errorf("Predict(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestGini(t *testing.T) {
	got := []float64{gini(0), gini(1), gini(0.5)}
	want := []float64{0, 0, 0.5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("gini = %v, want %v", got, want)
	}
}

func TestParentImpurity(t *testing.T) {
	tests := []struct {
		y    []float64
		want float64
	}{
		{nil, 0},
		{[]float64{0, 0}, 1},
		{[]float64{1, 1}, 0},
		{[]float64{1, 0, 0, 0}, 1 - 0.25*0.25},
	}
	for _, tt := range tests {
		if got := parentImpurity(tt.y); got != tt.want {
			t.Errorf("parentImpurity(%v) = %v, want %v", tt.y, got, tt.want)
		}
	}
}

// 19 行では step = 1 なので全ての値が候補になり、奇数の閾値も選ばれる
func TestTrainStump_NineteenRowsSamplesEveryValue(t *testing.T) {
	vals := make([]float64, 19)
	y := make([]float64, 19)
	for i := range vals {
		vals[i] = float64(i)
		if i == 18 {
			y[i] = 1
		}
	}

	s := TrainStump(column(vals...), y)
	want := DecisionStump{FeatureIndex: 0, Threshold: 17, LeftLabel: 0, RightLabel: 1}
	if s != want {
		t.Errorf("TrainStump() = %+v, want %+v", s, want)
	}
}
