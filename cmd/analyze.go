package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/partaudit/internal/analyzer"
	"github.com/sells-group/partaudit/internal/fetcher"
	"github.com/sells-group/partaudit/internal/model"
	"github.com/sells-group/partaudit/pkg/anthropic"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <pdf-or-directory>",
	Short: "Predict manufacturing characteristics from technical drawings",
	Long:  "Sends drawing PDFs to Claude and writes the prediction records as a JSON array suitable for the validate command.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		output, _ := cmd.Flags().GetString("output")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		if cfg.Anthropic.Key == "" {
			return eris.New("analyze: Anthropic API key is required (PARTAUDIT_ANTHROPIC_KEY)")
		}
		if concurrency == 0 {
			concurrency = cfg.Analyzer.Concurrency
		}

		a := analyzer.New(anthropic.NewClient(cfg.Anthropic.Key), analyzer.Options{
			Model:          cfg.Anthropic.Model,
			MaxTokens:      int64(cfg.Analyzer.MaxTokens),
			Temperature:    cfg.Analyzer.Temperature,
			Concurrency:    concurrency,
			RequestsPerMin: cfg.Analyzer.RequestsPerMin,
		})

		info, err := os.Stat(args[0])
		if err != nil {
			return eris.Wrapf(err, "analyze: stat %s", args[0])
		}

		var records []model.PredictionRecord
		if info.IsDir() {
			records, err = a.AnalyzeDir(ctx, args[0])
			if err != nil {
				return err
			}
		} else {
			rec, err := a.AnalyzePart(ctx, args[0])
			if err != nil {
				return err
			}
			records = []model.PredictionRecord{*rec}
		}

		if err := fetcher.WritePredictionsFile(output, records); err != nil {
			return err
		}
		zap.L().Info("predictions written",
			zap.String("output", output),
			zap.Int("records", len(records)),
		)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringP("output", "o", "analysis_results.json", "output predictions JSON file")
	analyzeCmd.Flags().Int("concurrency", 0, "parallel drawings in flight (default from config)")

	rootCmd.AddCommand(analyzeCmd)
}
