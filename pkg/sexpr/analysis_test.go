package sexpr

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func TestCollectAtoms(t *testing.T) {
	forest := mustParse(t, sampleProgram, false)
	got := sortedSet(CollectAtoms(forest))
	want := []string{"1", "fact1", "fact2", "player", "role", "rule1", "rule2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CollectAtoms mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectNonFunctorAtoms(t *testing.T) {
	forest := mustParse(t, sampleProgram, false)
	got := sortedSet(CollectNonFunctorAtoms(forest))
	want := []string{"1", "fact1", "player", "rule1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CollectNonFunctorAtoms mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectFunctorAtoms(t *testing.T) {
	forest := mustParse(t, sampleProgram, false)
	got := CollectFunctorAtoms(forest)
	want := map[string]int{"role": 1, "fact2": 1, "rule2": 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CollectFunctorAtoms mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectFunctorAtomsNested(t *testing.T) {
	forest := mustParse(t, "(init (cell 1 (succ 2) b))", false)
	got := CollectFunctorAtoms(forest)
	want := map[string]int{"init": 1, "cell": 3, "succ": 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CollectFunctorAtoms mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectAtomsPanicsOnMalformedTree(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("CollectAtoms on malformed tree did not panic")
		}
	}()
	CollectAtoms([]Node{NewCompound(NewCompound(NewLeaf("a"), NewLeaf("b")), NewLeaf("c"))})
}

func TestCollectVariableArgs(t *testing.T) {
	forest := mustParse(t, "(f ?x (g ?y ?x) a)", false)
	vars, err := CollectVariableArgs(forest[0])
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]map[ArgPos]bool{
		"?x": {
			{Functor: "f", Index: 1}: true,
			{Functor: "g", Index: 2}: true,
		},
		"?y": {
			{Functor: "g", Index: 1}: true,
		},
	}
	if diff := cmp.Diff(want, vars); diff != "" {
		t.Errorf("CollectVariableArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectVariableArgsOnLeaf(t *testing.T) {
	if _, err := CollectVariableArgs(NewLeaf("x")); err == nil {
		t.Error("CollectVariableArgs on leaf succeeded, want error")
	}
}

func TestCollectSameDomainArgsInBody(t *testing.T) {
	forest := mustParse(t, "(<= (r ?x) (p ?x ?y) (q ?y ?x))", false)
	pairs, err := CollectSameDomainArgsInBody(forest[0])
	if err != nil {
		t.Fatal(err)
	}
	want := []ArgPosPair{
		{First: ArgPos{"p", 1}, Second: ArgPos{"q", 2}},
		{First: ArgPos{"p", 2}, Second: ArgPos{"q", 1}},
	}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Errorf("pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectSameDomainArgsInBodyAllPairs(t *testing.T) {
	// A variable at three body positions yields all three pairs.
	forest := mustParse(t, "(<= (r ?x) (p ?x) (q ?x) (s ?x))", false)
	pairs, err := CollectSameDomainArgsInBody(forest[0])
	if err != nil {
		t.Fatal(err)
	}
	want := []ArgPosPair{
		{First: ArgPos{"p", 1}, Second: ArgPos{"q", 1}},
		{First: ArgPos{"p", 1}, Second: ArgPos{"s", 1}},
		{First: ArgPos{"q", 1}, Second: ArgPos{"s", 1}},
	}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Errorf("pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectSameDomainArgsInBodySinglePosition(t *testing.T) {
	forest := mustParse(t, "(<= (r ?x) (p ?x))", false)
	pairs, err := CollectSameDomainArgsInBody(forest[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 0 {
		t.Errorf("got %v, want no pairs", pairs)
	}
}

func TestCollectSameDomainArgsBetweenHeadAndBody(t *testing.T) {
	forest := mustParse(t, "(<= (r ?x) (p ?x ?y) (q ?y ?x))", false)
	pairs, err := CollectSameDomainArgsBetweenHeadAndBody(forest[0])
	if err != nil {
		t.Fatal(err)
	}
	want := []ArgPosPair{
		{First: ArgPos{"r", 1}, Second: ArgPos{"p", 1}},
		{First: ArgPos{"r", 1}, Second: ArgPos{"q", 2}},
	}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Errorf("pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectSameDomainArgsBetweenHeadAndBodyEmptyCases(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"head only", "(<= (r ?x))"},
		{"leaf head", "(<= head (p ?x))"},
		{"no shared variables", "(<= (r ?x) (p ?y))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forest := mustParse(t, tt.in, false)
			pairs, err := CollectSameDomainArgsBetweenHeadAndBody(forest[0])
			if err != nil {
				t.Fatal(err)
			}
			if len(pairs) != 0 {
				t.Errorf("got %v, want no pairs", pairs)
			}
		})
	}
}

func TestSameDomainArgsRejectNonRules(t *testing.T) {
	forest := mustParse(t, "(p a b)", false)
	if _, err := CollectSameDomainArgsInBody(forest[0]); err == nil {
		t.Error("CollectSameDomainArgsInBody on non-rule succeeded, want error")
	}
	if _, err := CollectSameDomainArgsBetweenHeadAndBody(forest[0]); err == nil {
		t.Error("CollectSameDomainArgsBetweenHeadAndBody on non-rule succeeded, want error")
	}
}

func TestIsRule(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"(<= head body)", true},
		{"(<= head)", true},
		{"(p a)", false},
		{"a", false},
		{"()", false},
	}
	for _, tt := range tests {
		forest := mustParse(t, tt.in, false)
		if got := IsRule(forest[0]); got != tt.want {
			t.Errorf("IsRule(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
