// Package pipeline wires ingestion, splitting, training and evaluation
// together and serves single-passenger predictions from the fitted models.
package pipeline

import (
	"strings"

	"github.com/YuminosukeSato/survivalml/core/model"
	"github.com/YuminosukeSato/survivalml/dataset"
	"github.com/YuminosukeSato/survivalml/pkg/errors"
)

// Prediction is one model's verdict for one passenger.
type Prediction struct {
	Model       string
	Label       float64
	Probability float64
}

// Survived reports whether the predicted label is 1.
func (p Prediction) Survived() bool { return p.Label >= 0.5 }

// Service answers predictions for single feature vectors.
type Service struct {
	models []model.BinaryClassifier
}

// NewService creates a Service over the given models. Predictions are
// returned in the same order.
func NewService(models ...model.BinaryClassifier) *Service {
	return &Service{models: models}
}

// Predict runs every model on one feature vector of width dataset.NumFeatures.
func (s *Service) Predict(features []float64) (preds []Prediction, err error) {
	defer errors.Recover(&err, "Service.Predict")

	if len(features) != dataset.NumFeatures {
		return nil, errors.NewDimensionError("Service.Predict", dataset.NumFeatures, len(features), 1)
	}

	row := [][]float64{features}
	preds = make([]Prediction, 0, len(s.models))
	for _, m := range s.models {
		preds = append(preds, Prediction{
			Model:       m.Name(),
			Label:       m.Predict(row)[0],
			Probability: m.PredictProba(row)[0],
		})
	}
	return preds, nil
}

// Models returns the model names in prediction order.
func (s *Service) Models() []string {
	names := make([]string, len(s.models))
	for i, m := range s.models {
		names[i] = m.Name()
	}
	return names
}

// NewPassenger builds a feature vector from raw passenger attributes.
//
// class must be 1, 2 or 3. sex is 0.0 only for an exact (case-insensitive)
// "male"; anything else is 1.0. family_size is sibsp + parch + 1.
func NewPassenger(class int, sex string, age, fare float64, sibsp, parch int) ([]float64, error) {
	if class < 1 || class > 3 {
		return nil, errors.NewValidationError("class", "must be 1, 2 or 3", class)
	}
	if age < 0 {
		return nil, errors.NewValidationError("age", "must not be negative", age)
	}
	if sibsp < 0 || parch < 0 {
		return nil, errors.NewValidationError("family", "sibsp and parch must not be negative", []int{sibsp, parch})
	}

	sexCode := 1.0
	if strings.EqualFold(strings.TrimSpace(sex), "male") {
		sexCode = 0.0
	}

	vec := make([]float64, dataset.NumFeatures)
	vec[dataset.ColClass] = float64(class)
	vec[dataset.ColSex] = sexCode
	vec[dataset.ColAge] = age
	vec[dataset.ColFare] = fare
	vec[dataset.ColSibSp] = float64(sibsp)
	vec[dataset.ColParch] = float64(parch)
	vec[dataset.ColFamilySize] = float64(sibsp + parch + 1)
	return vec, nil
}
