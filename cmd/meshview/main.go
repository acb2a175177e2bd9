package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/precisesim/meshview/version"
)

var (
	flagBackend  string
	flagConfig   string
	flagMode     string
	flagWeld     float64
	flagNoReload bool
)

var rootCmd = &cobra.Command{
	Use:   "meshview [file]",
	Short: "Desktop viewer for STL and OBJ meshes",
	Long: `meshview displays triangle meshes from STL (binary and ASCII) and OBJ
files with orbit/pan/zoom controls. The rendering backend is swappable:
an immediate-mode canvas, an OpenGL window, or an embedded WebGL page.

Started without a file it shows a unit cube so the controls can be
explored right away.`,
	Version: version.GetFullVersion(),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return runView(path)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: per-user config dir)")
	rootCmd.Flags().StringVar(&flagBackend, "backend", "", "rendering backend: fyne, raylib or webgl")
	rootCmd.Flags().StringVar(&flagMode, "render-mode", "", "initial render mode: solid, wireframe or solid+wireframe")
	rootCmd.Flags().Float64Var(&flagWeld, "weld", -1, "vertex weld tolerance, 0 disables welding")
	rootCmd.Flags().BoolVar(&flagNoReload, "no-reload", false, "disable reloading when the file changes on disk")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
