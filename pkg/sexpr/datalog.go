package sexpr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/mangle/ast"
)

// PropPredicate wraps zero-argument facts and goals for Datalog export.
// Datalog atoms carry an explicit predicate symbol, so a bare leaf such
// as "terminal" is encoded as prop("terminal") rather than as a
// nullary predicate.
const PropPredicate = "prop"

// ToDatalog converts a parsed forest into Datalog clauses for the Mangle
// engine. Plain facts become clauses with an empty body; rule compounds
// become head-plus-premises clauses. Leaf arguments map to string
// constants, all-digit leaves to numbers, and variables to Datalog
// variables. A nested compound argument is not expressible as a flat
// Datalog term and is encoded as a string constant holding its canonical
// S-expression.
func ToDatalog(forest []Node) ([]ast.Clause, error) {
	clauses := make([]ast.Clause, 0, len(forest))
	for _, node := range forest {
		clause, err := datalogClause(node)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

func datalogClause(node Node) (ast.Clause, error) {
	comp, ok := node.(*Compound)
	if !ok || !IsRule(node) {
		head, err := datalogAtom(node)
		if err != nil {
			return ast.Clause{}, err
		}
		return ast.Clause{Head: head}, nil
	}
	if len(comp.children) < 2 {
		return ast.Clause{}, fmt.Errorf("sexpr: rule clause must have a head")
	}
	head, err := datalogAtom(comp.children[1])
	if err != nil {
		return ast.Clause{}, err
	}
	var premises []ast.Term
	for _, goal := range comp.children[2:] {
		atom, err := datalogAtom(goal)
		if err != nil {
			return ast.Clause{}, err
		}
		premises = append(premises, atom)
	}
	return ast.Clause{Head: head, Premises: premises}, nil
}

func datalogAtom(node Node) (ast.Atom, error) {
	switch n := node.(type) {
	case *Leaf:
		if n.IsVariable() {
			return ast.Atom{}, fmt.Errorf("sexpr: variable %s cannot stand alone as a datalog atom", n.value)
		}
		return ast.NewAtom(PropPredicate, ast.String(n.value)), nil
	case *Compound:
		head, err := functorLeaf(n)
		if err != nil {
			return ast.Atom{}, err
		}
		if head.IsVariable() {
			return ast.Atom{}, fmt.Errorf("sexpr: functor cannot be a variable: %s", head.value)
		}
		args := make([]ast.BaseTerm, 0, len(n.children)-1)
		for _, arg := range n.children[1:] {
			term, err := datalogTerm(arg)
			if err != nil {
				return ast.Atom{}, err
			}
			args = append(args, term)
		}
		return ast.NewAtom(head.value, args...), nil
	}
	return ast.Atom{}, fmt.Errorf("sexpr: unknown node type %T", node)
}

func datalogTerm(node Node) (ast.BaseTerm, error) {
	switch n := node.(type) {
	case *Leaf:
		if n.IsVariable() {
			return ast.Variable{Symbol: datalogVariableName(n.value)}, nil
		}
		if num, err := strconv.ParseInt(n.value, 10, 64); err == nil {
			return ast.Number(num), nil
		}
		return ast.String(n.value), nil
	case *Compound:
		// Flattened: Datalog base terms cannot nest compound structure.
		return ast.String(n.Sexpr()), nil
	}
	return nil, fmt.Errorf("sexpr: unknown node type %T", node)
}

// datalogVariableName maps a "?name" variable to Mangle's variable
// convention: the filtered name with an uppercase first letter.
func datalogVariableName(value string) string {
	name := filterVariableName(strings.TrimPrefix(value, "?"))
	switch {
	case name == "":
		return "V"
	case name[0] >= 'a' && name[0] <= 'z':
		return strings.ToUpper(name[:1]) + name[1:]
	case name[0] >= 'A' && name[0] <= 'Z':
		return name
	default:
		return "V" + name
	}
}

// HelperFacts exports the structural helper relations as Datalog atoms:
// user_defined_functor(Name, Arity), connected_args(F1, P1, F2, P2) and
// equivalent_args(F1, P1, F2, P2), with the same subsumption rule as the
// Prolog helper-clause block.
func HelperFacts(forest []Node) ([]ast.Atom, error) {
	var facts []ast.Atom

	functors := CollectFunctorAtoms(forest)
	for _, name := range sortedFunctorNames(functors) {
		if reservedWords[name] {
			continue
		}
		facts = append(facts, ast.NewAtom("user_defined_functor",
			ast.String(name), ast.Number(int64(functors[name]))))
	}

	inBody := make(map[ArgPosPair]bool)
	headBody := make(map[ArgPosPair]bool)
	for _, node := range forest {
		if !IsRule(node) {
			continue
		}
		bodyPairs, err := CollectSameDomainArgsInBody(node)
		if err != nil {
			return nil, err
		}
		for _, pair := range bodyPairs {
			inBody[pair] = true
		}
		crossPairs, err := CollectSameDomainArgsBetweenHeadAndBody(node)
		if err != nil {
			return nil, err
		}
		for _, pair := range crossPairs {
			headBody[pair] = true
		}
	}
	for _, pair := range sortedPairs(inBody) {
		if headBody[pair] {
			continue
		}
		facts = append(facts, argPairAtom("connected_args", pair))
	}
	for _, pair := range sortedPairs(headBody) {
		facts = append(facts, argPairAtom("equivalent_args", pair))
	}
	return facts, nil
}

func argPairAtom(predicate string, pair ArgPosPair) ast.Atom {
	return ast.NewAtom(predicate,
		ast.String(pair.First.Functor), ast.Number(int64(pair.First.Index)),
		ast.String(pair.Second.Functor), ast.Number(int64(pair.Second.Index)))
}

func sortedFunctorNames(functors map[string]int) []string {
	names := make([]string, 0, len(functors))
	for name := range functors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
