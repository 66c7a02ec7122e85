package metrics

import (
	"math"
	"testing"
)

func TestMAE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{name: "perfect", yTrue: []float64{0, 1}, yPred: []float64{0, 1}, want: 0},
		{name: "half off", yTrue: []float64{0, 1}, yPred: []float64{0.5, 0.5}, want: 0.5},
		{name: "mixed", yTrue: []float64{1, 0, 1, 0}, yPred: []float64{0.9, 0.2, 0.6, 0.1}, want: 0.2},
		{name: "empty", yTrue: nil, yPred: nil, wantErr: true},
		{name: "dimension mismatch", yTrue: []float64{1, 0}, yPred: []float64{1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MAE(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MAE() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("MAE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBrierScore(t *testing.T) {
	got, err := BrierScore([]float64{1, 0, 1, 0}, []float64{0.9, 0.2, 0.6, 0.1})
	if err != nil {
		t.Fatalf("BrierScore() error = %v", err)
	}
	// (0.01 + 0.04 + 0.16 + 0.01) / 4 = 0.055
	if math.Abs(got-0.055) > 1e-10 {
		t.Errorf("BrierScore() = %v, want 0.055", got)
	}

	if _, err := BrierScore(nil, nil); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := BrierScore([]float64{1}, []float64{0.5, 0.5}); err == nil {
		t.Error("expected error for dimension mismatch")
	}
}

func BenchmarkAccuracy(b *testing.B) {
	n := 10000
	yTrue := make([]float64, n)
	yPred := make([]float64, n)
	for i := 0; i < n; i++ {
		yTrue[i] = float64(i % 2)
		yPred[i] = float64((i / 3) % 2)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Accuracy(yTrue, yPred)
	}
}
