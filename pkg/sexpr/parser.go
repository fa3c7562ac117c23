package sexpr

import (
	"fmt"
	"strings"
)

// Parsing errors. Parse fails fast: malformed input aborts the whole
// parse and no partial forest is returned.
var (
	// ErrUnbalancedParens is returned when the input ends while a "("
	// is still waiting for its matching ")".
	ErrUnbalancedParens = fmt.Errorf("sexpr: unbalanced parentheses")

	// ErrUnexpectedRightParen is returned for a ")" with no matching
	// "(" at the top level.
	ErrUnexpectedRightParen = fmt.Errorf("sexpr: unexpected ')'")
)

// RemoveComments removes every substring from a ';' through the end of
// its line, leaving all other characters, including the newline, intact.
// There is no quoted-string awareness; a ';' always starts a comment.
func RemoveComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inComment := false
	for i := 0; i < len(text); i++ {
		switch ch := text[i]; {
		case ch == ';':
			inComment = true
		case ch == '\n':
			inComment = false
			b.WriteByte(ch)
		case !inComment:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// tokenize splits comment-stripped text into tokens. "(" and ")" are
// always standalone single-character tokens, even with no surrounding
// whitespace; any maximal run of other non-whitespace characters is one
// token. Whitespace (space, tab, newline, carriage return) delimits
// tokens and produces none itself.
func tokenize(text string) []string {
	var tokens []string
	start := -1
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, text[start:end])
			start = -1
		}
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			flush(i)
		case '(', ')':
			flush(i)
			tokens = append(tokens, text[i:i+1])
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(text))
	return tokens
}

// Parse parses S-expression text into a forest of trees. Multiple
// sibling expressions at the top level are all returned, in order.
// Comments are stripped before tokenizing, so input consisting only of
// whitespace and comments yields an empty forest.
//
// When flattenSingleChild is true, any compound that would be built with
// exactly one child is replaced by that child directly, at every nesting
// level, collapsing redundant single-element groupings.
//
// Unbalanced parentheses are a fatal parse error: no partial forest is
// ever returned.
func Parse(text string, flattenSingleChild bool) ([]Node, error) {
	tokens := tokenize(RemoveComments(text))
	var forest []Node
	pos := 0
	for pos < len(tokens) {
		switch tokens[pos] {
		case "(":
			node, next, err := parseUntilRightParen(tokens, pos+1, flattenSingleChild)
			if err != nil {
				return nil, err
			}
			forest = append(forest, node)
			pos = next
		case ")":
			return nil, fmt.Errorf("%w at top level", ErrUnexpectedRightParen)
		default:
			forest = append(forest, NewLeaf(tokens[pos]))
			pos++
		}
	}
	return forest, nil
}

// parseUntilRightParen builds one compound from tokens starting just
// past a "(". It consumes tokens until the matching ")" at the same
// depth, recursing for each nested "(". It returns the node and the
// index just past the closing ")".
func parseUntilRightParen(tokens []string, pos int, flatten bool) (Node, int, error) {
	var children []Node
	for {
		if pos >= len(tokens) {
			return nil, 0, ErrUnbalancedParens
		}
		switch tokens[pos] {
		case ")":
			if flatten && len(children) == 1 {
				return children[0], pos + 1, nil
			}
			return NewCompound(children...), pos + 1, nil
		case "(":
			child, next, err := parseUntilRightParen(tokens, pos+1, flatten)
			if err != nil {
				return nil, 0, err
			}
			children = append(children, child)
			pos = next
		default:
			children = append(children, NewLeaf(tokens[pos]))
			pos++
		}
	}
}

// ParseKIF parses KIF text with single-child flattening enabled, the
// conventional mode for game description input.
func ParseKIF(text string) ([]Node, error) {
	return Parse(text, true)
}
