package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gosurv/adapters/excel"
	"gosurv/app"
	"gosurv/domain/clinical"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gosurv-cli",
		Short: "Survival sweeps over genomic marker cohorts",
	}

	rootCmd.AddCommand(
		newSweepCmd(),
		newMarkersCmd(),
		newCurvesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadTable(path, subtype string) (*clinical.PatientTable, error) {
	table, err := excel.NewClinicalReader(path).Read()
	if err != nil {
		return nil, err
	}
	if subtype != "" {
		table = table.FilterSubtype(subtype)
	}
	return table, nil
}

func newSweepCmd() *cobra.Command {
	var subtype string
	var markerList string
	var minGroupSize int
	var workers int
	var asJSON bool
	var outFile string

	cmd := &cobra.Command{
		Use:   "sweep [clinical-file]",
		Short: "Run a log-rank sweep over marker columns",
		Long: `Run the cohort-build / Kaplan-Meier / log-rank pipeline for each marker.

Example: gosurv-cli sweep gbm_clinical.xlsx --subtype Proneural --markers EGFR,MYC,CDK4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(args[0], subtype)
			if err != nil {
				return err
			}

			var markers []clinical.MarkerKey
			if markerList == "" {
				markers = table.Markers()
			} else {
				for _, m := range strings.Split(markerList, ",") {
					if m = strings.TrimSpace(m); m != "" {
						markers = append(markers, clinical.MarkerKey(m))
					}
				}
			}

			opts := app.DefaultSweepOptions()
			opts.MinGroupSize = minGroupSize
			opts.Workers = workers
			opts.Dataset = args[0]
			opts.Subtype = subtype

			batch, err := app.NewSweepService().RunSweep(context.Background(), table, markers, opts)
			if err != nil {
				return err
			}

			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(batch)
			}

			md := app.NewReportService().Markdown(batch)
			if outFile != "" {
				return os.WriteFile(outFile, []byte(md), 0o644)
			}
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		},
	}

	cmd.Flags().StringVar(&subtype, "subtype", "", "restrict to one disease subtype before building cohorts")
	cmd.Flags().StringVar(&markerList, "markers", "", "comma-separated marker columns (default: all)")
	cmd.Flags().IntVar(&minGroupSize, "min-group-size", app.DefaultMinGroupSize, "minimum patients per cohort")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent marker evaluations")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw batch result as JSON")
	cmd.Flags().StringVar(&outFile, "out", "", "write the markdown report to a file")

	return cmd
}

func newMarkersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "markers [clinical-file]",
		Short: "List the marker columns in a clinical file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(args[0], "")
			if err != nil {
				return err
			}
			for _, m := range table.Markers() {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
	return cmd
}

func newCurvesCmd() *cobra.Command {
	var subtype string

	cmd := &cobra.Command{
		Use:   "curves [clinical-file] [marker]",
		Short: "Print both Kaplan-Meier curves for one marker as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(args[0], subtype)
			if err != nil {
				return err
			}

			detail, err := app.NewSweepService().DescribeMarker(table, clinical.MarkerKey(args[1]), nil)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(detail)
		},
	}

	cmd.Flags().StringVar(&subtype, "subtype", "", "restrict to one disease subtype")
	return cmd
}
