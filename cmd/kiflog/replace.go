package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitrdm/kiflog/pkg/sexpr"
)

var replaceCmd = &cobra.Command{
	Use:   "replace <file> <before> <after>",
	Short: "Replace an atom throughout a KIF file",
	Long: `Parses the KIF file, replaces every leaf whose value exactly equals
<before> with <after>, and prints the rewritten S-expressions.`,
	Args: cobra.ExactArgs(3),
	RunE: runReplace,
}

func runReplace(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	forest, err := sexpr.ParseKIF(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	for _, node := range sexpr.ReplaceAtoms(forest, args[1], args[2]) {
		fmt.Println(node.Sexpr())
	}
	return nil
}
