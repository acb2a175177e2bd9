package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/precisesim/meshview/pkg/analysis"
	"github.com/precisesim/meshview/pkg/formats"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print measurements of a mesh file without opening a window",
	Long:  "Show triangle, vertex and edge counts, bounding box dimensions, surface area and enclosed volume.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	m, err := formats.Load(path)
	if err != nil {
		return err
	}

	report := analysis.Analyze(m)
	fmt.Fprintf(os.Stdout, "File:          %s\n", path)
	fmt.Fprint(os.Stdout, report.String())

	bbox := report.BoundingBox
	fmt.Printf("Bounds min:    (%.3f, %.3f, %.3f)\n", bbox.Min.X, bbox.Min.Y, bbox.Min.Z)
	fmt.Printf("Bounds max:    (%.3f, %.3f, %.3f)\n", bbox.Max.X, bbox.Max.Y, bbox.Max.Z)
	return nil
}
