package model

import (
	"testing"

	"github.com/YuminosukeSato/survivalml/pkg/errors"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager()

	if s.IsFitted() {
		t.Fatal("new StateManager should not be fitted")
	}

	err := s.RequireFitted("LogisticRegression", "Predict")
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFittedError, got %v", err)
	}

	s.SetFitted(7, 712)
	if !s.IsFitted() {
		t.Error("expected fitted after SetFitted")
	}
	if err := s.RequireFitted("LogisticRegression", "Predict"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if f, n := s.Dimensions(); f != 7 || n != 712 {
		t.Errorf("Dimensions() = (%d, %d), want (7, 712)", f, n)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("expected not fitted after Reset")
	}
	if f, n := s.Dimensions(); f != 0 || n != 0 {
		t.Errorf("Dimensions() after Reset = (%d, %d)", f, n)
	}
}
