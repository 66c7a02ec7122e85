package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YuminosukeSato/survivalml/pkg/errors"
)

func TestNew(t *testing.T) {
	if _, err := New([][]float64{{1, 2}}, []float64{1, 0}); err == nil {
		t.Error("expected LengthMismatchError")
	} else {
		var lm *errors.LengthMismatchError
		if !errors.As(err, &lm) {
			t.Errorf("expected LengthMismatchError, got %v", err)
		}
	}

	if _, err := New([][]float64{{1, 2}, {1}}, []float64{1, 0}); err == nil {
		t.Error("expected DimensionError for ragged rows")
	}

	ds, err := New([][]float64{{1, 2}, {3, 4}}, []float64{1, 0})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if ds.Len() != 2 || ds.NumCols() != 2 {
		t.Errorf("shape = (%d, %d), want (2, 2)", ds.Len(), ds.NumCols())
	}
}

func TestSubsetCopiesRows(t *testing.T) {
	ds, _ := New([][]float64{{1}, {2}, {3}}, []float64{0, 1, 0})

	sub := ds.Subset([]int{2, 0})
	if sub.Len() != 2 || sub.Features[0][0] != 3 || sub.Labels[1] != 0 {
		t.Fatalf("unexpected subset: %+v", sub)
	}

	sub.Features[0][0] = 99
	if ds.Features[2][0] != 3 {
		t.Error("Subset must not alias the original rows")
	}
}

func TestPositiveRate(t *testing.T) {
	ds, _ := New([][]float64{{0}, {0}, {0}, {0}}, []float64{1, 0, 1, 1})
	if got := ds.PositiveRate(); got != 0.75 {
		t.Errorf("PositiveRate() = %v, want 0.75", got)
	}
	if got := Empty().PositiveRate(); got != 0 {
		t.Errorf("PositiveRate() on empty = %v, want 0", got)
	}
}

func TestMatrix(t *testing.T) {
	X, y := Empty().Matrix()
	if X != nil || y != nil {
		t.Error("Matrix() on empty DataSet should return nil")
	}

	ds, _ := New([][]float64{{1, 2}, {3, 4}, {5, 6}}, []float64{0, 1, 1})
	X, y = ds.Matrix()
	r, c := X.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("Dims() = (%d, %d), want (3, 2)", r, c)
	}
	if X.At(2, 1) != 6 || y.AtVec(1) != 1 {
		t.Error("matrix values do not match rows")
	}
}

func TestDescribe(t *testing.T) {
	ds, _ := New([][]float64{
		{1, 0, 20, 10, 0, 0, 1},
		{3, 1, 40, 30, 1, 1, 3},
	}, []float64{0, 1})

	summary := ds.Describe()
	if len(summary) != NumFeatures {
		t.Fatalf("len(Describe()) = %d, want %d", len(summary), NumFeatures)
	}
	age := summary[ColAge]
	if age.Name != "age" || age.Mean != 30 || age.Min != 20 || age.Max != 40 {
		t.Errorf("unexpected age summary: %+v", age)
	}
	if math.Abs(age.Std-math.Sqrt(200)) > 1e-9 {
		t.Errorf("age std = %v, want %v", age.Std, math.Sqrt(200))
	}
}

func TestOpenRecords(t *testing.T) {
	_, err := OpenRecords(filepath.Join(t.TempDir(), "missing.csv"))
	var ingestErr *errors.IngestError
	if !errors.As(err, &ingestErr) {
		t.Fatalf("expected IngestError, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "titanic.csv")
	content := "survived,pclass\n\"1\", 2 \n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	rows, err := OpenRecords(path)
	if err != nil {
		t.Fatalf("OpenRecords() error = %v", err)
	}
	if len(rows) != 2 || strings.Join(rows[1], "|") != "1|2" {
		t.Errorf("rows = %q", rows)
	}
}
