// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/argos-import/internal/featureclass"
)

var exportCmd = &cobra.Command{
	Use:   "export <featureclass>",
	Short: "Export a feature class as GeoJSON or YAML",
	Long: `Export reads a feature class written by import and prints it as a
GeoJSON FeatureCollection (or the same structure in YAML). Projected
feature classes are converted back to WGS 84 longitude/latitude.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	ctx := context.Background()
	fc, err := featureclass.Open(ctx, args[0])
	if err != nil {
		return err
	}
	defer fc.Close()

	if outPath == "" || outPath == "-" {
		return exportTo(ctx, fc, os.Stdout, format)
	}
	if err := exportFile(ctx, fc, outPath, format); err != nil {
		return err
	}
	logger.Infof("Exported %s to %s", fc.Table(), outPath)
	return nil
}

// exportFile writes the export to path and reports a failed close.
func exportFile(ctx context.Context, fc *featureclass.FeatureClass, path, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := exportTo(ctx, fc, f, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	return nil
}

func exportTo(ctx context.Context, fc *featureclass.FeatureClass, w io.Writer, format string) error {
	switch format {
	case "geojson", "json", "":
		return fc.ExportGeoJSON(ctx, w)
	case "yaml":
		return fc.ExportYAML(ctx, w)
	default:
		return fmt.Errorf("unsupported format %q: use geojson or yaml", format)
	}
}

func init() {
	exportCmd.Flags().String("format", "geojson", "export format: geojson or yaml")
	exportCmd.Flags().String("out", "-", "output file (- for stdout)")

	rootCmd.AddCommand(exportCmd)
}
