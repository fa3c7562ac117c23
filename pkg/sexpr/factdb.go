package sexpr

import (
	"fmt"
	"hash/fnv"
)

// Relation names a ground-fact relation extracted from a game
// description, with a fixed arity and optional indexed columns.
// Relations are immutable after creation.
type Relation struct {
	name    string
	arity   int
	indexes map[int]bool
}

// Rel creates a relation with the given name, arity, and optional
// indexed columns (0-based argument positions). Indexing a column gives
// O(1) lookups for that position.
func Rel(name string, arity int, indexedCols ...int) (*Relation, error) {
	if name == "" {
		return nil, fmt.Errorf("sexpr: relation name cannot be empty")
	}
	if arity <= 0 {
		return nil, fmt.Errorf("sexpr: relation arity must be positive, got %d", arity)
	}
	indexes := make(map[int]bool)
	for _, col := range indexedCols {
		if col < 0 || col >= arity {
			return nil, fmt.Errorf("sexpr: index column %d out of range for arity %d", col, arity)
		}
		indexes[col] = true
	}
	return &Relation{name: name, arity: arity, indexes: indexes}, nil
}

// Name returns the relation's name.
func (r *Relation) Name() string {
	return r.name
}

// Arity returns the relation's arity.
func (r *Relation) Arity() int {
	return r.arity
}

// factRow is one ground fact, hashed for deduplication.
type factRow struct {
	args []string
	hash uint64
}

func hashArgs(args []string) uint64 {
	h := fnv.New64a()
	for _, arg := range args {
		fmt.Fprintf(h, "%s|", arg)
	}
	return h.Sum64()
}

// relationFacts holds the rows and per-column indexes of one relation.
type relationFacts struct {
	rows   []factRow
	index  map[int]map[string][]int // column -> value -> row ids
	rowSet map[uint64]bool          // dedup via row hash
}

func newRelationFacts(rel *Relation) *relationFacts {
	index := make(map[int]map[string][]int)
	for col := range rel.indexes {
		index[col] = make(map[string][]int)
	}
	return &relationFacts{
		rows:   nil,
		index:  index,
		rowSet: make(map[uint64]bool),
	}
}

// clone makes a shallow copy for copy-on-write. Rows are immutable and
// shared; index buckets are shared until appended to.
func (rf *relationFacts) clone() *relationFacts {
	index := make(map[int]map[string][]int, len(rf.index))
	for col, bucket := range rf.index {
		copied := make(map[string][]int, len(bucket))
		for value, ids := range bucket {
			copied[value] = ids
		}
		index[col] = copied
	}
	rowSet := make(map[uint64]bool, len(rf.rowSet))
	for h := range rf.rowSet {
		rowSet[h] = true
	}
	return &relationFacts{rows: rf.rows, index: index, rowSet: rowSet}
}

// FactDB is a persistent, in-memory store of the ground facts of a
// parsed game description, indexed for lookup by argument value.
// Add returns a new snapshot; existing snapshots are never mutated,
// so they can be shared freely across readers.
type FactDB struct {
	rels map[string]*Relation
	data map[string]*relationFacts
}

// NewFactDB creates an empty fact database.
func NewFactDB() FactDB {
	return FactDB{
		rels: make(map[string]*Relation),
		data: make(map[string]*relationFacts),
	}
}

// Relation returns the registered relation with the given name, or nil.
func (db FactDB) Relation(name string) *Relation {
	return db.rels[name]
}

// Len returns the total number of stored facts.
func (db FactDB) Len() int {
	total := 0
	for _, rf := range db.data {
		total += len(rf.rows)
	}
	return total
}

// Add returns a new database snapshot containing the given fact.
// Duplicate facts are ignored. The argument count must match the
// relation's arity.
func (db FactDB) Add(rel *Relation, args ...string) (FactDB, error) {
	if rel == nil {
		return db, fmt.Errorf("sexpr: nil relation")
	}
	if len(args) != rel.arity {
		return db, fmt.Errorf("sexpr: relation %s expects %d args, got %d", rel.name, rel.arity, len(args))
	}
	if existing, ok := db.rels[rel.name]; ok && existing.arity != rel.arity {
		return db, fmt.Errorf("sexpr: relation %s already registered with arity %d", rel.name, existing.arity)
	}

	hash := hashArgs(args)
	if rf, ok := db.data[rel.name]; ok && rf.rowSet[hash] {
		for _, row := range rf.rows {
			if row.hash == hash && equalArgs(row.args, args) {
				return db, nil
			}
		}
	}

	next := FactDB{
		rels: make(map[string]*Relation, len(db.rels)+1),
		data: make(map[string]*relationFacts, len(db.data)+1),
	}
	for name, r := range db.rels {
		next.rels[name] = r
	}
	for name, rf := range db.data {
		next.data[name] = rf
	}
	next.rels[rel.name] = rel

	rf, ok := next.data[rel.name]
	if ok {
		rf = rf.clone()
	} else {
		rf = newRelationFacts(rel)
	}
	copied := make([]string, len(args))
	copy(copied, args)
	id := len(rf.rows)
	rf.rows = append(rf.rows, factRow{args: copied, hash: hash})
	rf.rowSet[hash] = true
	for col := range rel.indexes {
		bucket := rf.index[col]
		ids := make([]int, 0, len(bucket[args[col]])+1)
		ids = append(ids, bucket[args[col]]...)
		bucket[args[col]] = append(ids, id)
	}
	next.data[rel.name] = rf
	return next, nil
}

func equalArgs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Lookup returns the rows of rel whose argument at col equals value.
// Indexed columns resolve through the index; others scan.
func (db FactDB) Lookup(rel *Relation, col int, value string) ([][]string, error) {
	if rel == nil {
		return nil, fmt.Errorf("sexpr: nil relation")
	}
	if col < 0 || col >= rel.arity {
		return nil, fmt.Errorf("sexpr: column %d out of range for arity %d", col, rel.arity)
	}
	rf, ok := db.data[rel.name]
	if !ok {
		return nil, nil
	}
	var out [][]string
	if rel.indexes[col] {
		for _, id := range rf.index[col][value] {
			out = append(out, rf.rows[id].args)
		}
		return out, nil
	}
	for _, row := range rf.rows {
		if row.args[col] == value {
			out = append(out, row.args)
		}
	}
	return out, nil
}

// Facts returns every stored row of rel, in insertion order.
func (db FactDB) Facts(rel *Relation) [][]string {
	rf, ok := db.data[rel.name]
	if !ok {
		return nil
	}
	out := make([][]string, len(rf.rows))
	for i, row := range rf.rows {
		out[i] = row.args
	}
	return out
}

// LoadFacts extracts every ground top-level fact of a forest into the
// database: compounds with a non-rule functor whose arguments are all
// non-variable leaves. Rules, bare leaves, facts with nested compound
// arguments, and facts whose functor was already seen at a different
// arity are skipped. All columns of loaded relations are indexed.
func LoadFacts(db FactDB, forest []Node) (FactDB, error) {
	for _, node := range forest {
		comp, ok := node.(*Compound)
		if !ok || len(comp.children) < 2 {
			continue
		}
		head, ok := comp.children[0].(*Leaf)
		if !ok || head.value == RuleOperator || head.IsVariable() {
			continue
		}
		args := make([]string, 0, len(comp.children)-1)
		ground := true
		for _, arg := range comp.children[1:] {
			leaf, ok := arg.(*Leaf)
			if !ok || leaf.IsVariable() {
				ground = false
				break
			}
			args = append(args, leaf.value)
		}
		if !ground {
			continue
		}
		rel := db.Relation(head.value)
		if rel == nil {
			cols := make([]int, len(args))
			for i := range cols {
				cols[i] = i
			}
			created, err := Rel(head.value, len(args), cols...)
			if err != nil {
				return db, err
			}
			rel = created
		} else if rel.arity != len(args) {
			// Inconsistent arity usage in the source; keep first-seen.
			continue
		}
		next, err := db.Add(rel, args...)
		if err != nil {
			return db, err
		}
		db = next
	}
	return db, nil
}
