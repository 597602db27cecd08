// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/argos-import/internal/spatialref"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and supported spatial references",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(os.Stdout)
	},
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "argos-import %s\n", version)
	fmt.Fprintln(w, "Output spatial references:")
	for _, ref := range spatialref.Supported() {
		fmt.Fprintf(w, "  %-10s %s\n", ref, ref.Name)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
