// Package survivalml predicts passenger survival from a Titanic-style
// passenger list with two small from-scratch classifiers.
//
// The pipeline reads a delimited passenger file, turns every row into a
// seven-value feature vector (class, sex, age, fare, siblings/spouses,
// parents/children, family size), holds out part of the rows for testing,
// trains a logistic regression and an ensemble of decision stumps, and
// reports the test accuracy of both. The fitted models then answer single
// passenger queries.
//
// # Quick Start
//
// Run the whole pipeline from the command line:
//
//	survival train --data titanic.csv
//	survival predict --data titanic.csv --class 1 --sex female --age 29 --fare 80
//	survival config --data titanic.csv --out survival.yaml
//
// Or from Go:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/survivalml/config"
//	    "github.com/YuminosukeSato/survivalml/pipeline"
//	)
//
//	func main() {
//	    cfg := config.Default()
//	    cfg.Data.Path = "titanic.csv"
//
//	    res, err := pipeline.Run(context.Background(), cfg, nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, s := range res.Scores {
//	        fmt.Printf("%s: %.2f%%\n", s.Model, s.Accuracy*100)
//	    }
//	}
//
// # Packages
//
//   - dataset: CSV reading, row ingestion with median age imputation, DataSet
//   - sklearn/model_selection: train/test split
//   - sklearn/linear_model: LogisticRegression (online gradient ascent)
//   - sklearn/tree: DecisionStump
//   - sklearn/ensemble: StumpForest (majority vote of stumps)
//   - preprocessing: StandardScaler and ScaledClassifier
//   - metrics: Accuracy, ConfusionMatrix, MAE, BrierScore
//   - pipeline: Run and the prediction Service
//   - config: YAML configuration
//   - report: accuracy and probability charts
//   - core/model: estimator interfaces and StateManager
//   - core/parallel: parallel index-range helpers
//   - pkg/errors, pkg/log: error types and structured logging
package survivalml
