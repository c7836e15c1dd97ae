package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/partaudit/internal/fetcher"
	"github.com/sells-group/partaudit/internal/validate"
)

var templateCmd = &cobra.Command{
	Use:   "template [output.xlsx]",
	Short: "Write a starter ground truth workbook",
	Long:  "Creates an XLSX workbook with the expected column layout, example rows, and fill-in instructions for curating ground truth.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output := "ground_truth_template.xlsx"
		if len(args) == 1 {
			output = args[0]
		}

		mappingPath, _ := cmd.Flags().GetString("mapping")
		mapping := validate.DefaultMapping()
		if mappingPath != "" {
			m, err := validate.LoadMapping(mappingPath)
			if err != nil {
				return err
			}
			mapping = m
		}

		if err := fetcher.WriteTemplate(output, mapping); err != nil {
			return err
		}
		zap.L().Info("template written", zap.String("output", output))
		return nil
	},
}

func init() {
	templateCmd.Flags().String("mapping", "", "parameter mapping YAML (default built-in)")

	rootCmd.AddCommand(templateCmd)
}
