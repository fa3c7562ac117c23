// Package sexpr parses S-expression text into an immutable tree
// representation and transcodes that tree into normalized S-expression
// form and Prolog clause syntax. It is the preprocessing front end for
// logic-programming pipelines that consume Game Description Language
// (GDL) / Knowledge Interchange Format (KIF) input.
//
// The package provides:
//   - Parsing: comment stripping, tokenizing, and recursive tree
//     building (Parse, ParseKIF)
//   - Rendering: canonical S-expression re-serialization and a debug
//     string form (Node.Sexpr, Node.String)
//   - Prolog encoding: atom/term/clause/program generation with
//     configurable quoting and prefixes (EncoderConfig, ToProlog)
//   - Structural analysis: atom and functor collection, variable
//     argument positions, and same-domain argument relationships
//   - Transformation: pure atom substitution (ReplaceAtoms)
//   - Export: conversion to Datalog clauses and an indexed fact store
//
// Trees are immutable after construction. All operations are pure
// computation over owned data; the package holds no shared mutable
// state and is safe for concurrent readers.
package sexpr

import (
	"strconv"
	"strings"
)

// RuleOperator marks a compound as a rule (head followed by body goals)
// rather than a plain fact or term.
const RuleOperator = "<="

// reservedWords is the fixed GDL keyword set. Leaves whose value matches
// one of these case-insensitively are stored in lowercase form.
var reservedWords = map[string]bool{
	"role":     true,
	"init":     true,
	"true":     true,
	"does":     true,
	"legal":    true,
	"next":     true,
	"goal":     true,
	"terminal": true,
	"input":    true,
	"base":     true,
	"or":       true,
	"not":      true,
	"distinct": true,
}

// IsReservedWord reports whether name (already lowercased or not) is one
// of the fixed GDL keywords.
func IsReservedWord(name string) bool {
	return reservedWords[strings.ToLower(name)]
}

// Node is a node of a parsed S-expression tree. A Node is exactly one of
// two variants: a *Leaf holding a token value, or a *Compound holding an
// ordered sequence of child nodes.
//
// Nodes are immutable after construction. Transformations such as
// ReplaceAtoms return new trees rather than mutating in place.
type Node interface {
	// IsLeaf reports whether the node is a leaf.
	IsLeaf() bool

	// IsVariable reports whether the node is a variable leaf, that is,
	// a leaf whose value starts with '?'. Compounds are never variables.
	IsVariable() bool

	// Equal reports structural equality: leaves are equal iff their
	// values match, compounds iff their children are pairwise equal in
	// order. A leaf is never equal to a compound.
	Equal(other Node) bool

	// String returns a debug representation of the node. It is
	// diagnostic only and does not round-trip.
	String() string

	// Sexpr returns the canonical S-expression serialization of the
	// node. Parsing the result (without flattening) reproduces the node.
	Sexpr() string
}

// Leaf is a terminal node holding a single token value.
type Leaf struct {
	value string
}

// NewLeaf creates a leaf from a token value. If the value matches a
// reserved GDL keyword case-insensitively, the stored value is the
// lowercased form; all other values are preserved verbatim.
func NewLeaf(value string) *Leaf {
	if lowered := strings.ToLower(value); reservedWords[lowered] {
		value = lowered
	}
	return &Leaf{value: value}
}

// newRawLeaf creates a leaf without reserved-word normalization.
// Used by ReplaceAtoms, where replacement values are stored verbatim.
func newRawLeaf(value string) *Leaf {
	return &Leaf{value: value}
}

// Value returns the leaf's token value.
func (l *Leaf) Value() string {
	return l.value
}

// IsLeaf always returns true for leaves.
func (l *Leaf) IsLeaf() bool {
	return true
}

// IsVariable reports whether the leaf's value starts with '?'.
func (l *Leaf) IsVariable() bool {
	return len(l.value) > 0 && l.value[0] == '?'
}

// Equal reports whether other is a leaf with the same value.
func (l *Leaf) Equal(other Node) bool {
	o, ok := other.(*Leaf)
	return ok && l.value == o.value
}

// String returns the debug form "leaf:<value>".
func (l *Leaf) String() string {
	return "leaf:" + l.value
}

// Sexpr returns the leaf's raw value.
func (l *Leaf) Sexpr() string {
	return l.value
}

// Compound is an interior node holding an ordered sequence of children.
// An empty compound (zero children) is valid and distinct from any leaf.
type Compound struct {
	children []Node
}

// NewCompound creates a compound node from the given children. The
// children slice is copied, so later changes to the argument do not
// affect the node.
func NewCompound(children ...Node) *Compound {
	cs := make([]Node, len(children))
	copy(cs, children)
	return &Compound{children: cs}
}

// Children returns the compound's child nodes. The returned slice is
// shared with the node and must not be modified.
func (c *Compound) Children() []Node {
	return c.children
}

// IsLeaf always returns false for compounds.
func (c *Compound) IsLeaf() bool {
	return false
}

// IsVariable always returns false for compounds.
func (c *Compound) IsVariable() bool {
	return false
}

// Equal reports whether other is a compound whose children are pairwise
// equal in order.
func (c *Compound) Equal(other Node) bool {
	o, ok := other.(*Compound)
	if !ok || len(c.children) != len(o.children) {
		return false
	}
	for i, child := range c.children {
		if !child.Equal(o.children[i]) {
			return false
		}
	}
	return true
}

// String returns the debug form "non-leaf[<n>]( <children> )".
func (c *Compound) String() string {
	var b strings.Builder
	b.WriteString("non-leaf[")
	b.WriteString(strconv.Itoa(len(c.children)))
	b.WriteString("](")
	for _, child := range c.children {
		b.WriteByte(' ')
		b.WriteString(child.String())
	}
	b.WriteString(" )")
	return b.String()
}

// Sexpr returns "(" followed by the space-joined serialization of each
// child and ")".
func (c *Compound) Sexpr() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, child := range c.children {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(child.Sexpr())
	}
	b.WriteByte(')')
	return b.String()
}

// ChildrenSexpr returns the space-joined serialization of the compound's
// children without the surrounding parentheses, for embedding fragments
// into larger expressions.
func (c *Compound) ChildrenSexpr() string {
	parts := make([]string, len(c.children))
	for i, child := range c.children {
		parts[i] = child.Sexpr()
	}
	return strings.Join(parts, " ")
}
