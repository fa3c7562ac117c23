package sexpr

import (
	"fmt"
	"sort"
)

// ArgPos identifies one argument slot of a compound term: the functor
// name and the zero-based child index within the term. Index 0 is the
// functor slot itself, so real arguments start at index 1.
type ArgPos struct {
	Functor string
	Index   int
}

// ArgPosPair records that two argument slots are known to range over the
// same logical domain because a shared variable occupies both. For
// head-body pairs, First is the head position and Second the body
// position; for body-internal pairs the slots are in sorted order.
type ArgPosPair struct {
	First, Second ArgPos
}

// functorLeaf returns the functor leaf of a compound term, enforcing the
// compound-term shape: at least two children with a leaf first child.
func functorLeaf(comp *Compound) (*Leaf, error) {
	if len(comp.children) < 2 {
		return nil, fmt.Errorf("sexpr: compound term must have a functor and at least one argument, got %d children", len(comp.children))
	}
	head, ok := comp.children[0].(*Leaf)
	if !ok {
		return nil, fmt.Errorf("sexpr: compound term must start with a functor, got %s", comp.children[0].Sexpr())
	}
	return head, nil
}

// mustFunctorLeaf is functorLeaf for collectors whose signatures carry
// no error. A malformed compound is caller misuse of a malformed tree,
// surfaced as a panic rather than silently skipped.
func mustFunctorLeaf(comp *Compound) *Leaf {
	head, err := functorLeaf(comp)
	if err != nil {
		panic(err)
	}
	return head
}

// IsRule reports whether node is a rule: a compound whose first child is
// the rule operator leaf.
func IsRule(node Node) bool {
	comp, ok := node.(*Compound)
	if !ok || len(comp.children) == 0 {
		return false
	}
	head, ok := comp.children[0].(*Leaf)
	return ok && head.value == RuleOperator
}

// ruleCompound checks that node is a well-formed rule compound and
// returns it.
func ruleCompound(node Node) (*Compound, error) {
	comp, ok := node.(*Compound)
	if !ok {
		return nil, fmt.Errorf("sexpr: rule must be a compound term, got %s", node.Sexpr())
	}
	head, err := functorLeaf(comp)
	if err != nil {
		return nil, err
	}
	if head.value != RuleOperator {
		return nil, fmt.Errorf("sexpr: not a rule clause: %s", comp.Sexpr())
	}
	return comp, nil
}

// CollectAtoms gathers every atom in the forest: each leaf value that is
// neither the rule operator nor a variable, in both functor and argument
// positions. It panics on a malformed compound term.
func CollectAtoms(forest []Node) map[string]bool {
	atoms := make(map[string]bool)
	for _, node := range forest {
		collectAtoms(node, atoms)
	}
	return atoms
}

func collectAtoms(node Node, atoms map[string]bool) {
	switch n := node.(type) {
	case *Leaf:
		if n.value != RuleOperator && !n.IsVariable() {
			atoms[n.value] = true
		}
	case *Compound:
		mustFunctorLeaf(n)
		for _, child := range n.children {
			collectAtoms(child, atoms)
		}
	}
}

// CollectNonFunctorAtoms gathers every atom that occurs in an argument
// position: as CollectAtoms, but each compound's functor is skipped.
// It panics on a malformed compound term.
func CollectNonFunctorAtoms(forest []Node) map[string]bool {
	atoms := make(map[string]bool)
	for _, node := range forest {
		collectNonFunctorAtoms(node, atoms)
	}
	return atoms
}

func collectNonFunctorAtoms(node Node, atoms map[string]bool) {
	switch n := node.(type) {
	case *Leaf:
		if n.value != RuleOperator && !n.IsVariable() {
			atoms[n.value] = true
		}
	case *Compound:
		mustFunctorLeaf(n)
		for _, child := range n.children[1:] {
			collectNonFunctorAtoms(child, atoms)
		}
	}
}

// CollectFunctorAtoms maps every functor in the forest to its arity
// (child count minus one). Rule operator compounds contribute no functor
// themselves but their compound arguments are searched. When the same
// functor name occurs at different arities the merge keeps one arity per
// name (last seen in document order wins); callers should not rely on
// which, as a conflict indicates inconsistent arity usage in the source.
// It panics on a malformed compound term.
func CollectFunctorAtoms(forest []Node) map[string]int {
	functors := make(map[string]int)
	for _, node := range forest {
		collectFunctorAtoms(node, functors)
	}
	return functors
}

func collectFunctorAtoms(node Node, functors map[string]int) {
	comp, ok := node.(*Compound)
	if !ok {
		return
	}
	head := mustFunctorLeaf(comp)
	if head.value != RuleOperator {
		functors[head.value] = len(comp.children) - 1
	}
	for _, arg := range comp.children[1:] {
		collectFunctorAtoms(arg, functors)
	}
}

// CollectVariableArgs maps each variable occurring in a compound term to
// the set of argument slots it occupies. Direct variable arguments are
// recorded under the term's own functor; compound arguments are searched
// recursively and contribute positions under their own functor names.
func CollectVariableArgs(node Node) (map[string]map[ArgPos]bool, error) {
	comp, ok := node.(*Compound)
	if !ok {
		return nil, fmt.Errorf("sexpr: variable arguments require a compound term, got %s", node.Sexpr())
	}
	head, err := functorLeaf(comp)
	if err != nil {
		return nil, err
	}
	vars := make(map[string]map[ArgPos]bool)
	for i, arg := range comp.children[1:] {
		switch a := arg.(type) {
		case *Leaf:
			if a.IsVariable() {
				addVariableArg(vars, a.value, ArgPos{Functor: head.value, Index: i + 1})
			}
		case *Compound:
			nested, err := CollectVariableArgs(a)
			if err != nil {
				return nil, err
			}
			mergeVariableArgs(vars, nested)
		}
	}
	return vars, nil
}

func addVariableArg(vars map[string]map[ArgPos]bool, name string, pos ArgPos) {
	if vars[name] == nil {
		vars[name] = make(map[ArgPos]bool)
	}
	vars[name][pos] = true
}

func mergeVariableArgs(dst, src map[string]map[ArgPos]bool) {
	for name, positions := range src {
		for pos := range positions {
			addVariableArg(dst, name, pos)
		}
	}
}

// bodyVariableArgs unions CollectVariableArgs over every compound body
// goal of a rule (children from index 2 onward).
func bodyVariableArgs(rule *Compound) (map[string]map[ArgPos]bool, error) {
	vars := make(map[string]map[ArgPos]bool)
	for _, goal := range rule.children[2:] {
		comp, ok := goal.(*Compound)
		if !ok {
			continue
		}
		nested, err := CollectVariableArgs(comp)
		if err != nil {
			return nil, err
		}
		mergeVariableArgs(vars, nested)
	}
	return vars, nil
}

// CollectSameDomainArgsInBody derives, for a rule node, every pair of
// argument slots within the body that are filled by a shared variable.
// A variable occurring at n positions yields all n*(n-1)/2 unordered
// pairs. Pairs are returned in deterministic sorted order with
// First < Second.
func CollectSameDomainArgsInBody(node Node) ([]ArgPosPair, error) {
	rule, err := ruleCompound(node)
	if err != nil {
		return nil, err
	}
	vars, err := bodyVariableArgs(rule)
	if err != nil {
		return nil, err
	}
	pairs := make(map[ArgPosPair]bool)
	for _, positions := range vars {
		if len(positions) < 2 {
			continue
		}
		sorted := sortedArgPositions(positions)
		for i := 0; i < len(sorted)-1; i++ {
			for j := i + 1; j < len(sorted); j++ {
				pairs[ArgPosPair{First: sorted[i], Second: sorted[j]}] = true
			}
		}
	}
	return sortedPairs(pairs), nil
}

// CollectSameDomainArgsBetweenHeadAndBody derives, for a rule node,
// every pair of argument slots where a head variable also occurs in the
// body: the cross product of each shared variable's head positions and
// body positions, head first. It returns nothing for a head-only rule or
// a leaf head.
func CollectSameDomainArgsBetweenHeadAndBody(node Node) ([]ArgPosPair, error) {
	rule, err := ruleCompound(node)
	if err != nil {
		return nil, err
	}
	if len(rule.children) == 2 {
		return nil, nil
	}
	headComp, ok := rule.children[1].(*Compound)
	if !ok {
		return nil, nil
	}
	headVars, err := CollectVariableArgs(headComp)
	if err != nil {
		return nil, err
	}
	bodyVars, err := bodyVariableArgs(rule)
	if err != nil {
		return nil, err
	}
	pairs := make(map[ArgPosPair]bool)
	for name, headPositions := range headVars {
		bodyPositions, ok := bodyVars[name]
		if !ok {
			continue
		}
		for headPos := range headPositions {
			for bodyPos := range bodyPositions {
				pairs[ArgPosPair{First: headPos, Second: bodyPos}] = true
			}
		}
	}
	return sortedPairs(pairs), nil
}

func lessArgPos(p, q ArgPos) bool {
	if p.Functor != q.Functor {
		return p.Functor < q.Functor
	}
	return p.Index < q.Index
}

func sortedArgPositions(positions map[ArgPos]bool) []ArgPos {
	sorted := make([]ArgPos, 0, len(positions))
	for pos := range positions {
		sorted = append(sorted, pos)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return lessArgPos(sorted[i], sorted[j])
	})
	return sorted
}

func sortedPairs(pairs map[ArgPosPair]bool) []ArgPosPair {
	sorted := make([]ArgPosPair, 0, len(pairs))
	for pair := range pairs {
		sorted = append(sorted, pair)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].First != sorted[j].First {
			return lessArgPos(sorted[i].First, sorted[j].First)
		}
		return lessArgPos(sorted[i].Second, sorted[j].Second)
	})
	return sorted
}
