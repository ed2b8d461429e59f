package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string
var mode string

var rootCmd = &cobra.Command{
	Use:   "sitemapgen",
	Short: "Emit sitemap.xml alongside esbuild output",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.yaml or ./config/config.yaml)")
	buildCmd.Flags().StringVarP(&mode, "mode", "m", "", "build mode: production, development or none (overrides build.mode)")
	rootCmd.AddCommand(buildCmd, serveCmd, inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
