// Package main implements the kiflog command line front end: converting
// GDL/KIF game descriptions to Prolog programs and reporting structural
// analyses of the parsed trees.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger    *zap.Logger
	debugMode bool
	cfgPath   string
)

var rootCmd = &cobra.Command{
	Use:   "kiflog",
	Short: "Convert GDL/KIF game descriptions to Prolog clauses",
	Long: `kiflog parses S-expression game descriptions (GDL/KIF) and
transcodes them into Prolog clause syntax, with structural analyses of
atoms, functors, and shared-variable argument domains.`,
	SilenceUsage: true,
}

func main() {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogger)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(replaceCmd)
}

func initLogger() {
	config := zap.NewProductionConfig()
	if debugMode {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	var err error
	logger, err = config.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
}
