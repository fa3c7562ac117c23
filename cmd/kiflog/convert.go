package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/kiflog/internal/parallel"
	"github.com/gitrdm/kiflog/pkg/sexpr"
)

var (
	convertQuote         bool
	convertFunctorPrefix string
	convertAtomPrefix    string
	convertHelpers       bool
	convertWorkers       int
	convertStdout        bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [file...]",
	Short: "Convert KIF files to Prolog programs",
	Long: `Parses each KIF file (with single-child flattening) and writes the
generated Prolog program to a .pl file next to the input. Files are
converted concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&convertQuote, "quote", false, "wrap atoms and functors in single quotes")
	convertCmd.Flags().StringVar(&convertFunctorPrefix, "functor-prefix", "", "prefix for functor names")
	convertCmd.Flags().StringVar(&convertAtomPrefix, "atom-prefix", "", "prefix for atom names")
	convertCmd.Flags().BoolVar(&convertHelpers, "helpers", false, "append structural helper clauses")
	convertCmd.Flags().IntVar(&convertWorkers, "workers", 0, "worker count for batch conversion (0 = NumCPU)")
	convertCmd.Flags().BoolVar(&convertStdout, "stdout", false, "print programs to stdout instead of writing .pl files")
}

type convertResult struct {
	path    string
	program string
	err     error
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	enc := encoderOptions(cmd, cfg)
	helpers := cfg.HelperClauses
	if cmd.Flags().Changed("helpers") {
		helpers = convertHelpers
	}
	workers := cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = convertWorkers
	}

	results := make([]convertResult, len(args))
	pool := parallel.NewPool(workers)
	defer pool.Close()

	var wg sync.WaitGroup
	for i, path := range args {
		i, path := i, path
		wg.Add(1)
		if err := pool.Submit(cmd.Context(), func() {
			defer wg.Done()
			results[i] = convertFile(path, enc, helpers)
		}); err != nil {
			wg.Done()
			return err
		}
	}
	wg.Wait()

	failed := 0
	for _, res := range results {
		if res.err != nil {
			logger.Error("conversion failed", zap.String("file", res.path), zap.Error(res.err))
			failed++
			continue
		}
		if convertStdout {
			fmt.Print(res.program)
			continue
		}
		out := outputPath(res.path)
		if err := os.WriteFile(out, []byte(res.program), 0o644); err != nil {
			logger.Error("write failed", zap.String("file", out), zap.Error(err))
			failed++
			continue
		}
		logger.Info("converted", zap.String("file", res.path), zap.String("output", out))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func convertFile(path string, enc sexpr.EncoderConfig, helpers bool) convertResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return convertResult{path: path, err: err}
	}
	forest, err := sexpr.ParseKIF(string(data))
	if err != nil {
		return convertResult{path: path, err: err}
	}
	program, err := enc.Program(forest, helpers)
	if err != nil {
		return convertResult{path: path, err: err}
	}
	return convertResult{path: path, program: program}
}

// encoderOptions merges config file values with any explicitly set
// flags, flags winning.
func encoderOptions(cmd *cobra.Command, cfg Config) sexpr.EncoderConfig {
	enc := sexpr.EncoderConfig{
		QuotesAtoms:   cfg.QuotesAtoms,
		FunctorPrefix: cfg.FunctorPrefix,
		AtomPrefix:    cfg.AtomPrefix,
	}
	if cmd.Flags().Changed("quote") {
		enc.QuotesAtoms = convertQuote
	}
	if cmd.Flags().Changed("functor-prefix") {
		enc.FunctorPrefix = convertFunctorPrefix
	}
	if cmd.Flags().Changed("atom-prefix") {
		enc.AtomPrefix = convertAtomPrefix
	}
	return enc
}

func outputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".pl"
}
