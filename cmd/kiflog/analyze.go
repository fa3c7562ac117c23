package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/kiflog/pkg/sexpr"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file...]",
	Short: "Report atoms, functors, and same-domain argument pairs",
	Long: `Parses each KIF file and prints the collected atoms, the
functor/arity table, and the same-domain argument relationships derived
from shared rule variables.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		forest, err := sexpr.ParseKIF(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		// Encoding validates every compound term shape before the
		// collectors walk the forest.
		if _, err := sexpr.ToProlog(forest, false, "", "", false); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		warnArityConflicts(forest)

		fmt.Printf("%s:\n", path)
		printSet("atoms", sexpr.CollectAtoms(forest))
		printSet("non-functor atoms", sexpr.CollectNonFunctorAtoms(forest))

		functors := sexpr.CollectFunctorAtoms(forest)
		names := make([]string, 0, len(functors))
		for name := range functors {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("  functors:")
		for _, name := range names {
			fmt.Printf("    %s/%d\n", name, functors[name])
		}

		for _, node := range forest {
			if !sexpr.IsRule(node) {
				continue
			}
			bodyPairs, err := sexpr.CollectSameDomainArgsInBody(node)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			crossPairs, err := sexpr.CollectSameDomainArgsBetweenHeadAndBody(node)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			for _, pair := range bodyPairs {
				fmt.Printf("  connected: %s/%d ~ %s/%d\n",
					pair.First.Functor, pair.First.Index,
					pair.Second.Functor, pair.Second.Index)
			}
			for _, pair := range crossPairs {
				fmt.Printf("  equivalent: %s/%d ~ %s/%d\n",
					pair.First.Functor, pair.First.Index,
					pair.Second.Functor, pair.Second.Index)
			}
		}
	}
	return nil
}

func printSet(label string, set map[string]bool) {
	values := make([]string, 0, len(set))
	for value := range set {
		values = append(values, value)
	}
	sort.Strings(values)
	fmt.Printf("  %s: %s\n", label, strings.Join(values, " "))
}

// warnArityConflicts logs every functor observed at more than one arity.
// The collector's merge keeps a single arity per name, which hides the
// inconsistency, so the conflict is surfaced here instead.
func warnArityConflicts(forest []sexpr.Node) {
	arities := make(map[string]map[int]bool)
	var walk func(node sexpr.Node)
	walk = func(node sexpr.Node) {
		comp, ok := node.(*sexpr.Compound)
		if !ok {
			return
		}
		children := comp.Children()
		if len(children) >= 2 {
			if head, ok := children[0].(*sexpr.Leaf); ok && head.Value() != sexpr.RuleOperator {
				if arities[head.Value()] == nil {
					arities[head.Value()] = make(map[int]bool)
				}
				arities[head.Value()][len(children)-1] = true
			}
		}
		for _, child := range children {
			walk(child)
		}
	}
	for _, node := range forest {
		walk(node)
	}
	for name, seen := range arities {
		if len(seen) < 2 {
			continue
		}
		list := make([]int, 0, len(seen))
		for arity := range seen {
			list = append(list, arity)
		}
		sort.Ints(list)
		logger.Warn("functor used at multiple arities",
			zap.String("functor", name), zap.Ints("arities", list))
	}
}
