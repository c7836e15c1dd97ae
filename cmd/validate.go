package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/partaudit/internal/fetcher"
	"github.com/sells-group/partaudit/internal/store"
	"github.com/sells-group/partaudit/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Compare predictions against ground truth and report accuracy",
	Long:  "Loads a predictions JSON file and a ground truth XLSX workbook, matches records by normalized part identifier, and reports per-parameter accuracy.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		predsPath, _ := cmd.Flags().GetString("predictions")
		gtPath, _ := cmd.Flags().GetString("ground-truth")
		mappingPath, _ := cmd.Flags().GetString("mapping")
		sheet, _ := cmd.Flags().GetString("sheet")
		workers, _ := cmd.Flags().GetInt("workers")
		output, _ := cmd.Flags().GetString("output")
		format, _ := cmd.Flags().GetString("format")
		label, _ := cmd.Flags().GetString("label")
		save, _ := cmd.Flags().GetBool("save")

		if mappingPath == "" {
			mappingPath = cfg.Validate.MappingFile
		}
		if workers == 0 {
			workers = cfg.Validate.Workers
		}
		if sheet == "" {
			sheet = cfg.Validate.Sheet
		}

		mapping := validate.DefaultMapping()
		if mappingPath != "" {
			m, err := validate.LoadMapping(mappingPath)
			if err != nil {
				return err
			}
			mapping = m
		}

		preds, err := fetcher.ReadPredictionsFile(predsPath)
		if err != nil {
			return err
		}
		table, err := fetcher.LoadGroundTruth(gtPath, fetcher.XLSXOptions{SheetName: sheet})
		if err != nil {
			return err
		}
		zap.L().Info("inputs loaded",
			zap.Int("predictions", len(preds)),
			zap.Int("ground_truth_rows", len(table.Rows)),
		)

		v, err := validate.New(mapping, validate.Options{Workers: workers})
		if err != nil {
			return err
		}
		report, err := v.Run(ctx, preds, table)
		if err != nil {
			return err
		}

		out := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return eris.Wrapf(err, "validate: create %s", output)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		switch format {
		case "table", "":
			formatReportTable(out, report)
		case "csv":
			if err := writeReportCSV(out, report); err != nil {
				return err
			}
		case "json":
			if err := writeReportJSON(out, report); err != nil {
				return err
			}
		default:
			return eris.Errorf("validate: unknown format %q", format)
		}

		if save {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			run, err := st.CreateRun(ctx, store.Run{
				Label:           label,
				PredictionsFile: predsPath,
				GroundTruthFile: gtPath,
				Report:          report,
			})
			if err != nil {
				return err
			}
			zap.L().Info("run saved", zap.String("run_id", run.ID))
		}

		return nil
	},
}

func init() {
	validateCmd.Flags().String("predictions", "analysis_results.json", "predictions JSON file")
	validateCmd.Flags().String("ground-truth", "ground_truth.xlsx", "ground truth XLSX workbook")
	validateCmd.Flags().String("mapping", "", "parameter mapping YAML (default built-in)")
	validateCmd.Flags().String("sheet", "", "ground truth sheet name (default first sheet)")
	validateCmd.Flags().Int("workers", 0, "parallel validation workers (default from config)")
	validateCmd.Flags().StringP("output", "o", "", "write report to file instead of stdout")
	validateCmd.Flags().String("format", "table", "report format: table, csv, json")
	validateCmd.Flags().String("label", "", "label for the saved run")
	validateCmd.Flags().Bool("save", false, "persist the report to the run-history store")

	rootCmd.AddCommand(validateCmd)
}
