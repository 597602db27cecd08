// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/argos-import/internal/featureclass"
	"github.com/pdiddy/argos-import/internal/ingest"
	"github.com/pdiddy/argos-import/internal/spatialref"
	"github.com/pdiddy/argos-import/pkg/types"
)

var importCmd = &cobra.Command{
	Use:   "import <input-folder> <output-featureclass> <spatial-reference>",
	Short: "Import a folder of ARGOS files into a point feature class",
	Long: `Import reads every file in the input folder (except README.txt), parses
the ARGOS records in it, and appends one point per record to the output
feature class.

The output is a GeoPackage table: "tracks.gpkg/argos" writes table "argos"
into tracks.gpkg, and "tracks.gpkg" writes table "tracks". The spatial
reference is an EPSG code (4326, EPSG:3857), a name such as "WGS 1984", WKT,
or a .prj file. Positions are read as WGS 84 and projected on insert.

After each file the number of records whose coordinates could not be
converted is reported as a warning. --on-invalid decides what happens to
those rows: reuse the previous point (default), insert an empty point, or
skip the row.`,
	Args: cobra.ExactArgs(3),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	inputDir, output, srArg := args[0], args[1], args[2]

	cfg, err := importConfig()
	if err != nil {
		return err
	}
	ref, err := spatialref.Parse(srArg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	fc, err := featureclass.Create(ctx, output, ref, cfg.Overwrite)
	if err != nil {
		return err
	}
	defer fc.Close()

	if !ref.Geographic() {
		logger.Infof("Projecting WGS 84 positions to %s (%s)", ref, ref.Name)
	}

	cur := fc.InsertCursor()
	result, err := ingest.New(cfg, cur, logger).Run(ctx, inputDir)
	if cerr := cur.Close(ctx); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatImportOutput(ctx, os.Stdout, result, fc, jsonOutput)
}

// importSummary is the --json form of an import run.
type importSummary struct {
	ingest.RunResult
	Output     string    `json:"output"`
	Table      string    `json:"table"`
	SpatialRef string    `json:"spatial_ref"`
	Rows       int       `json:"rows"`
	Extent     []float64 `json:"extent,omitempty"`
}

func formatImportOutput(ctx context.Context, w io.Writer, result ingest.RunResult, fc *featureclass.FeatureClass, jsonOutput bool) error {
	rows, err := fc.Count(ctx)
	if err != nil {
		return err
	}
	minX, minY, maxX, maxY, hasExtent, err := fc.Extent(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		summary := importSummary{
			RunResult:  result,
			Output:     fc.Path(),
			Table:      fc.Table(),
			SpatialRef: fc.SpatialRef().String(),
			Rows:       rows,
		}
		if hasExtent {
			summary.Extent = []float64{minX, minY, maxX, maxY}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Fprintf(w, "%-30s  %8s  %6s  %8s  %8s  %7s\n",
		"File", "Records", "Errors", "Filtered", "Inserted", "Error%")
	for _, f := range result.Files {
		fmt.Fprintf(w, "%-30s  %8d  %6d  %8d  %8d  %6.2f%%\n",
			f.Name, f.Records, f.Errors, f.Filtered, f.Inserted, f.ErrorRate())
	}
	fmt.Fprintf(w, "\nImport summary: %d files, %d skipped, %d records, %d errors\n",
		len(result.Files), result.Skipped, result.Records(), result.Errors())
	fmt.Fprintf(w, "Feature class: %s (table %s, %s), %d rows\n",
		fc.Path(), fc.Table(), fc.SpatialRef(), rows)
	if hasExtent {
		fmt.Fprintf(w, "Extent: %.6f %.6f %.6f %.6f\n", minX, minY, maxX, maxY)
	}
	return nil
}

func importConfig() (types.ImportConfig, error) {
	policy, err := types.ParseInvalidPolicy(viper.GetString("import.on_invalid"))
	if err != nil {
		return types.ImportConfig{}, err
	}
	return types.ImportConfig{
		SkipFile:        viper.GetString("import.skip_file"),
		OnInvalid:       policy,
		LocationClasses: viper.GetStringSlice("import.location_classes"),
		Overwrite:       viper.GetBool("import.overwrite"),
	}, nil
}

func init() {
	importCmd.Flags().String("on-invalid", string(types.InvalidReuse), "rows with unconvertible coordinates: reuse, null, or skip")
	importCmd.Flags().String("skip-file", types.DefaultSkipFile, "file name in the input folder that is never read")
	importCmd.Flags().StringSlice("lc", nil, "only insert records with these location classes (e.g. 1,2,3)")
	importCmd.Flags().Bool("overwrite", true, "replace an existing output feature class")
	importCmd.Flags().Bool("json", false, "print the run summary as JSON")

	viper.SetDefault("import.on_invalid", string(types.InvalidReuse))
	viper.SetDefault("import.skip_file", types.DefaultSkipFile)
	viper.SetDefault("import.overwrite", true)
	viper.BindPFlag("import.on_invalid", importCmd.Flags().Lookup("on-invalid"))
	viper.BindPFlag("import.skip_file", importCmd.Flags().Lookup("skip-file"))
	viper.BindPFlag("import.location_classes", importCmd.Flags().Lookup("lc"))
	viper.BindPFlag("import.overwrite", importCmd.Flags().Lookup("overwrite"))

	rootCmd.AddCommand(importCmd)
}
