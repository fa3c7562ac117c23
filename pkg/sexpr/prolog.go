package sexpr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EncoderConfig holds the options for Prolog clause generation.
// The zero value emits unquoted, unprefixed clauses.
type EncoderConfig struct {
	// QuotesAtoms wraps every atom and functor in single quotes.
	// Variables are never quoted.
	QuotesAtoms bool

	// FunctorPrefix is prepended to every functor name.
	FunctorPrefix string

	// AtomPrefix is prepended to every non-variable atom.
	AtomPrefix string
}

// filterVariableName maps a variable's base name to a Prolog-safe form:
// characters other than ASCII letters, digits, and '_' are replaced by
// "_c<code>_" where <code> is the character's code point.
func filterVariableName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '_',
			'a' <= r && r <= 'z',
			'A' <= r && r <= 'Z',
			'0' <= r && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteString("_c")
			b.WriteString(strconv.Itoa(int(r)))
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Atom renders a leaf as a Prolog atom. A variable leaf "?name" becomes
// "_" followed by its filtered name; any other leaf gets the atom prefix
// and, if QuotesAtoms is set, single quotes.
func (c EncoderConfig) Atom(leaf *Leaf) string {
	if leaf.IsVariable() {
		return "_" + filterVariableName(leaf.value[1:])
	}
	atom := c.AtomPrefix + leaf.value
	if c.QuotesAtoms {
		atom = "'" + atom + "'"
	}
	return atom
}

// quoteFunctor applies the functor prefix and optional quoting to a bare
// functor name.
func (c EncoderConfig) quoteFunctor(name string) string {
	functor := c.FunctorPrefix + name
	if c.QuotesAtoms {
		functor = "'" + functor + "'"
	}
	return functor
}

// Functor renders a leaf as a Prolog functor. The functor position of a
// compound term can never be a variable.
func (c EncoderConfig) Functor(leaf *Leaf) (string, error) {
	if leaf.IsVariable() {
		return "", fmt.Errorf("sexpr: functor cannot be a variable: %s", leaf.value)
	}
	return c.quoteFunctor(leaf.value), nil
}

// Term renders a node as a Prolog term. A leaf renders as its atom form.
// A compound must have a leaf functor and at least one argument and
// renders as "functor(arg, ..., arg)".
func (c EncoderConfig) Term(node Node) (string, error) {
	switch n := node.(type) {
	case *Leaf:
		return c.Atom(n), nil
	case *Compound:
		head, err := functorLeaf(n)
		if err != nil {
			return "", err
		}
		functor, err := c.Functor(head)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		b.WriteString(functor)
		b.WriteByte('(')
		for i, arg := range n.children[1:] {
			if i > 0 {
				b.WriteString(", ")
			}
			term, err := c.Term(arg)
			if err != nil {
				return "", err
			}
			b.WriteString(term)
		}
		b.WriteByte(')')
		return b.String(), nil
	}
	return "", fmt.Errorf("sexpr: unknown node type %T", node)
}

// Clause renders a top-level node as a Prolog clause. A leaf or plain
// compound renders as a fact ("term."). A compound whose first child is
// the rule operator renders as a rule: the second child is the head and
// any further children are body goals ("head :- goal, goal."). A rule
// with a head but no body renders as a head-only fact.
func (c EncoderConfig) Clause(node Node) (string, error) {
	comp, ok := node.(*Compound)
	if !ok {
		term, err := c.Term(node)
		if err != nil {
			return "", err
		}
		return term + ".", nil
	}
	if len(comp.children) == 0 {
		return "", fmt.Errorf("sexpr: empty clause is not allowed")
	}
	head, ok := comp.children[0].(*Leaf)
	if !ok {
		return "", fmt.Errorf("sexpr: clause must start with a functor, got %s", comp.children[0].Sexpr())
	}
	if head.value != RuleOperator {
		term, err := c.Term(node)
		if err != nil {
			return "", err
		}
		return term + ".", nil
	}
	// Rule clause.
	if len(comp.children) < 2 {
		return "", fmt.Errorf("sexpr: rule clause must have a head")
	}
	var b strings.Builder
	headTerm, err := c.Term(comp.children[1])
	if err != nil {
		return "", err
	}
	b.WriteString(headTerm)
	if len(comp.children) > 2 {
		b.WriteString(" :- ")
		for i, goal := range comp.children[2:] {
			if i > 0 {
				b.WriteString(", ")
			}
			term, err := c.Term(goal)
			if err != nil {
				return "", err
			}
			b.WriteString(term)
		}
	}
	b.WriteByte('.')
	return b.String(), nil
}

// Program renders a forest as a Prolog program, one newline-terminated
// clause per top-level node. With addsHelperClauses, the structural
// helper-clause block (user_defined_functor, connected_args,
// equivalent_args) is appended after the clauses.
func (c EncoderConfig) Program(forest []Node, addsHelperClauses bool) (string, error) {
	var b strings.Builder
	for _, node := range forest {
		clause, err := c.Clause(node)
		if err != nil {
			return "", err
		}
		b.WriteString(clause)
		b.WriteByte('\n')
	}
	if addsHelperClauses {
		helpers, err := c.HelperClauses(forest)
		if err != nil {
			return "", err
		}
		b.WriteString(helpers)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// HelperClauses renders the structural helper-clause block for a forest:
//
//   - "user_defined_functor(F, Arity)." for every collected functor atom
//     that is not a reserved word;
//   - "connected_args(F1, P1, F2, P2)." for every body-internal
//     same-domain pair that is not already implied by a head-body pair;
//   - "equivalent_args(F1, P1, F2, P2)." for every head-body same-domain
//     pair.
//
// Head-body pairs record argument slots directly unified through a rule
// head variable and supersede the weaker body-internal relationship for
// the same pair. Output order is deterministic (sorted).
func (c EncoderConfig) HelperClauses(forest []Node) (string, error) {
	var b strings.Builder

	functors := CollectFunctorAtoms(forest)
	names := make([]string, 0, len(functors))
	for name := range functors {
		if reservedWords[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "user_defined_functor(%s, %d).\n", c.quoteFunctor(name), functors[name])
	}

	inBody := make(map[ArgPosPair]bool)
	headBody := make(map[ArgPosPair]bool)
	for _, node := range forest {
		if !IsRule(node) {
			continue
		}
		bodyPairs, err := CollectSameDomainArgsInBody(node)
		if err != nil {
			return "", err
		}
		for _, pair := range bodyPairs {
			inBody[pair] = true
		}
		crossPairs, err := CollectSameDomainArgsBetweenHeadAndBody(node)
		if err != nil {
			return "", err
		}
		for _, pair := range crossPairs {
			headBody[pair] = true
		}
	}
	for _, pair := range sortedPairs(inBody) {
		if headBody[pair] {
			continue
		}
		fmt.Fprintf(&b, "connected_args(%s, %d, %s, %d).\n",
			c.quoteFunctor(pair.First.Functor), pair.First.Index,
			c.quoteFunctor(pair.Second.Functor), pair.Second.Index)
	}
	for _, pair := range sortedPairs(headBody) {
		fmt.Fprintf(&b, "equivalent_args(%s, %d, %s, %d).\n",
			c.quoteFunctor(pair.First.Functor), pair.First.Index,
			c.quoteFunctor(pair.Second.Functor), pair.Second.Index)
	}
	return b.String(), nil
}

// ToPrologClause renders a single node as a Prolog clause. It is a
// convenience wrapper around EncoderConfig.Clause.
func ToPrologClause(node Node, quotesAtoms bool, functorPrefix, atomPrefix string) (string, error) {
	c := EncoderConfig{QuotesAtoms: quotesAtoms, FunctorPrefix: functorPrefix, AtomPrefix: atomPrefix}
	return c.Clause(node)
}

// ToProlog renders a forest as a Prolog program. It is a convenience
// wrapper around EncoderConfig.Program.
func ToProlog(forest []Node, quotesAtoms bool, functorPrefix, atomPrefix string, addsHelperClauses bool) (string, error) {
	c := EncoderConfig{QuotesAtoms: quotesAtoms, FunctorPrefix: functorPrefix, AtomPrefix: atomPrefix}
	return c.Program(forest, addsHelperClauses)
}
