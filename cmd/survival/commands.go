package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/survivalml/config"
	"github.com/YuminosukeSato/survivalml/pipeline"
	"github.com/YuminosukeSato/survivalml/pkg/log"
)

// options shared by every subcommand
type rootOptions struct {
	configPath string
	dataPath   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "survival",
		Short:        "Train and query passenger survival models",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (defaults are used when empty)")
	rootCmd.PersistentFlags().StringVar(&opts.dataPath, "data", "", "passenger CSV, overrides data.path")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error, overrides log.level")

	rootCmd.AddCommand(newTrainCmd(opts), newPredictCmd(opts), newConfigCmd(opts))
	return rootCmd
}

// loadConfig reads the config file, applies flag overrides and installs the logger.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.dataPath != "" {
		cfg.Data.Path = o.dataPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if err := log.Setup(cfg.Log.Level, cmd.ErrOrStderr()); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newTrainCmd(root *rootOptions) *cobra.Command {
	var plotDir string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train both models and print their test accuracy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if plotDir != "" {
				cfg.Report.Path = plotDir
			}

			res, err := pipeline.Run(cmd.Context(), cfg, log.GetLogger())
			if err != nil {
				return err
			}
			printScores(cmd.OutOrStdout(), res)
			for _, chart := range res.Charts {
				fmt.Fprintf(cmd.OutOrStdout(), "chart: %s\n", chart)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&plotDir, "plot", "", "directory for accuracy and probability charts")
	return cmd
}

func newPredictCmd(root *rootOptions) *cobra.Command {
	var (
		class        int
		sex          string
		age, fare    float64
		sibsp, parch int
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Train both models, then predict survival for one passenger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			passenger, err := pipeline.NewPassenger(class, sex, age, fare, sibsp, parch)
			if err != nil {
				return err
			}
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}

			res, err := pipeline.Run(cmd.Context(), cfg, log.GetLogger())
			if err != nil {
				return err
			}
			printScores(cmd.OutOrStdout(), res)

			preds, err := res.Service.Predict(passenger)
			if err != nil {
				return err
			}
			for _, p := range preds {
				verdict := "perished"
				if p.Survived() {
					verdict = "survived"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (p=%.2f%%)\n", p.Model, verdict, p.Probability*100)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&class, "class", 3, "passenger class (1, 2 or 3)")
	cmd.Flags().StringVar(&sex, "sex", "male", "male or female")
	cmd.Flags().Float64Var(&age, "age", 30, "age in years")
	cmd.Flags().Float64Var(&fare, "fare", 15, "ticket fare")
	cmd.Flags().IntVar(&sibsp, "sibsp", 0, "siblings and spouses aboard")
	cmd.Flags().IntVar(&parch, "parch", 0, "parents and children aboard")
	return cmd
}

func newConfigCmd(root *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write the effective configuration (defaults, file, env and flags) as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Save(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "survival.yaml", "destination file")
	return cmd
}

func printScores(w io.Writer, res *pipeline.Result) {
	fmt.Fprintf(w, "train: %d  test: %d  median age: %.1f\n", res.Train.Len(), res.Test.Len(), res.Ingest.MedianAge)
	for _, s := range res.Scores {
		fmt.Fprintf(w, "%s accuracy: %.2f%%\n", s.Model, s.Accuracy*100)
	}
}
