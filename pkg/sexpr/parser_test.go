package sexpr

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// sexprs renders a forest to canonical form for comparison.
func sexprs(forest []Node) []string {
	out := make([]string, len(forest))
	for i, node := range forest {
		out[i] = node.Sexpr()
	}
	return out
}

func mustParse(t *testing.T, text string, flatten bool) []Node {
	t.Helper()
	forest, err := Parse(text, flatten)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	return forest
}

func TestRemoveComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"comment lines", "; comment\n a ; comment", "\n a "},
		{"comment to end of input", "a ;tail", "a "},
		{"semicolon mid token", "a;b c", "a"},
		{"multiple lines", "(a) ; one\n(b) ; two\n", "(a) \n(b) \n"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemoveComments(tt.in); got != tt.want {
				t.Errorf("RemoveComments(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRemoveCommentsIdempotentWithoutSemicolons(t *testing.T) {
	inputs := []string{"", "(a b)\n(c d)", "plain text\twith\ttabs\n"}
	for _, in := range inputs {
		if got := RemoveComments(in); got != in {
			t.Errorf("RemoveComments(%q) = %q, want input unchanged", in, got)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	inputs := []string{"", " \n\t", "  \n\n\t\t", " \n\t \n\t", "; only a comment\n"}
	for _, in := range inputs {
		forest := mustParse(t, in, false)
		if len(forest) != 0 {
			t.Errorf("Parse(%q) = %v, want empty forest", in, forest)
		}
	}
}

func TestParseSingleLiteral(t *testing.T) {
	forest := mustParse(t, "a", false)
	if len(forest) != 1 {
		t.Fatalf("got %d nodes, want 1", len(forest))
	}
	leaf, ok := forest[0].(*Leaf)
	if !ok {
		t.Fatalf("got %T, want *Leaf", forest[0])
	}
	if leaf.Value() != "a" {
		t.Errorf("Value() = %q, want %q", leaf.Value(), "a")
	}
}

func TestParseEmptyParen(t *testing.T) {
	forest := mustParse(t, "()", false)
	if len(forest) != 1 {
		t.Fatalf("got %d nodes, want 1", len(forest))
	}
	comp, ok := forest[0].(*Compound)
	if !ok {
		t.Fatalf("got %T, want *Compound", forest[0])
	}
	if len(comp.Children()) != 0 {
		t.Errorf("got %d children, want 0", len(comp.Children()))
	}
}

func TestParseAdjacentParens(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"(a)", []string{"(a)"}},
		{"(a(b)c)", []string{"(a (b) c)"}},
		{"((a)(b))", []string{"((a) (b))"}},
		{"a b (c d) e", []string{"a", "b", "(c d)", "e"}},
		{"a\r\nb", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			forest := mustParse(t, tt.in, false)
			if diff := cmp.Diff(tt.want, sexprs(forest)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseLowerReservedWords(t *testing.T) {
	in := "(ROLE INIT TRUE DOES LEGAL NEXT TERMINAL GOAL BASE INPUT OR NOT DISTINCT NOT_RESERVED)"
	want := "(role init true does legal next terminal goal base input or not distinct NOT_RESERVED)"
	forest := mustParse(t, in, false)
	if len(forest) != 1 {
		t.Fatalf("got %d nodes, want 1", len(forest))
	}
	if got := forest[0].Sexpr(); got != want {
		t.Errorf("Sexpr() = %q, want %q", got, want)
	}
}

func TestParseRoundTrip(t *testing.T) {
	inputs := []string{
		"(a (b (c) d) e)",
		"a",
		"()",
		"(a)",
		"((()) a)",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			forest := mustParse(t, in, false)
			if len(forest) != 1 {
				t.Fatalf("got %d nodes, want 1", len(forest))
			}
			again := mustParse(t, forest[0].Sexpr(), false)
			if len(again) != 1 || !forest[0].Equal(again[0]) {
				t.Errorf("round trip of %q gave %v", in, sexprs(again))
			}
		})
	}
}

func TestParseFlattenSingleChild(t *testing.T) {
	a := mustParse(t, "(((a)) (b (c) d) e)", true)
	b := mustParse(t, "(a (b c d) e)", true)
	if diff := cmp.Diff(sexprs(b), sexprs(a)); diff != "" {
		t.Errorf("flattened forests differ (-want +got):\n%s", diff)
	}
	if len(a) != 1 || !a[0].Equal(b[0]) {
		t.Errorf("flattened forests not structurally equal: %v vs %v", sexprs(a), sexprs(b))
	}
}

func TestParseFlattenToLeaf(t *testing.T) {
	forest := mustParse(t, "((a))", true)
	if len(forest) != 1 {
		t.Fatalf("got %d nodes, want 1", len(forest))
	}
	leaf, ok := forest[0].(*Leaf)
	if !ok || leaf.Value() != "a" {
		t.Errorf("got %v, want leaf a", forest[0])
	}
}

func TestParseUnbalanced(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"(a", ErrUnbalancedParens},
		{"(a (b)", ErrUnbalancedParens},
		{"(", ErrUnbalancedParens},
		{")", ErrUnexpectedRightParen},
		{"a) b", ErrUnexpectedRightParen},
		{"(a))", ErrUnexpectedRightParen},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			forest, err := Parse(tt.in, false)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.in, err, tt.want)
			}
			if forest != nil {
				t.Errorf("Parse(%q) returned partial forest %v", tt.in, forest)
			}
		})
	}
}

func TestParseKIF(t *testing.T) {
	forest, err := ParseKIF("(((a)) b)")
	if err != nil {
		t.Fatalf("ParseKIF failed: %v", err)
	}
	want := []string{"(a b)"}
	if diff := cmp.Diff(want, sexprs(forest)); diff != "" {
		t.Errorf("ParseKIF mismatch (-want +got):\n%s", diff)
	}
}
