package registry

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/toolsascode/revmig/internal/revision"
)

func rev(id, parent string) *revision.Revision {
	return &revision.Revision{ID: id, Parent: parent, Apply: revision.Statements{}, Revert: revision.Statements{}}
}

func ids(revs []*revision.Revision) []string {
	out := make([]string, 0, len(revs))
	for _, r := range revs {
		out = append(out, r.ID)
	}
	return out
}

func abcChain(t *testing.T) *Chain {
	t.Helper()
	chain, err := Load([]*revision.Revision{rev("c", "b"), rev("a", ""), rev("b", "a")})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return chain
}

func TestLoad_OrdersFromRoot(t *testing.T) {
	chain := abcChain(t)

	if got := ids(chain.Revisions()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Revisions() = %v, want [a b c]", got)
	}
	if chain.Root().ID != "a" || chain.Head().ID != "c" {
		t.Errorf("Root/Head = %s/%s, want a/c", chain.Root().ID, chain.Head().ID)
	}
}

func TestLoad_Empty(t *testing.T) {
	chain, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil) error = %v", err)
	}
	if chain.Len() != 0 || chain.Head() != nil || chain.Root() != nil {
		t.Error("empty set should load into an empty chain")
	}
	path, err := chain.PathTo(revision.Head)
	if err != nil || len(path) != 0 {
		t.Errorf("PathTo(head) on empty chain = %v, %v", path, err)
	}
}

func TestLoad_IntegrityErrors(t *testing.T) {
	tests := []struct {
		name     string
		revs     []*revision.Revision
		wantKind string
	}{
		{
			name:     "empty id",
			revs:     []*revision.Revision{rev("", "")},
			wantKind: KindEmptyID,
		},
		{
			name:     "keyword as root id",
			revs:     []*revision.Revision{rev("base", ""), rev("b2", "base")},
			wantKind: KindReservedID,
		},
		{
			name:     "keyword as id in another case",
			revs:     []*revision.Revision{rev("a", ""), rev("HEAD", "a")},
			wantKind: KindReservedID,
		},
		{
			name:     "duplicate id",
			revs:     []*revision.Revision{rev("a", ""), rev("a", "")},
			wantKind: KindDuplicateID,
		},
		{
			name:     "unknown parent",
			revs:     []*revision.Revision{rev("a", ""), rev("b", "missing")},
			wantKind: KindUnknownParent,
		},
		{
			name:     "cycle",
			revs:     []*revision.Revision{rev("a", "c"), rev("b", "a"), rev("c", "b")},
			wantKind: KindCycle,
		},
		{
			name:     "self parent",
			revs:     []*revision.Revision{rev("root", ""), rev("a", "a")},
			wantKind: KindCycle,
		},
		{
			name:     "detached cycle next to a valid chain",
			revs:     []*revision.Revision{rev("root", ""), rev("x", "y"), rev("y", "x")},
			wantKind: KindCycle,
		},
		{
			name:     "two heads",
			revs:     []*revision.Revision{rev("a", ""), rev("b", "a"), rev("c", "a")},
			wantKind: KindMultipleHeads,
		},
		{
			name:     "two roots",
			revs:     []*revision.Revision{rev("a", ""), rev("b", "")},
			wantKind: KindMultipleRoots,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.revs)
			var gerr *GraphIntegrityError
			if !errors.As(err, &gerr) {
				t.Fatalf("Load() error = %v, want GraphIntegrityError", err)
			}
			if gerr.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s (%v)", gerr.Kind, tt.wantKind, gerr)
			}
		})
	}
}

func TestLoad_CycleReportsPath(t *testing.T) {
	_, err := Load([]*revision.Revision{rev("a", "b"), rev("b", "a")})
	var gerr *GraphIntegrityError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GraphIntegrityError, got %v", err)
	}
	if !reflect.DeepEqual(gerr.Revisions, []string{"a", "b", "a"}) {
		t.Errorf("cycle path = %v, want [a b a]", gerr.Revisions)
	}
}

func TestPathTo_VisitsEveryRevisionOnce(t *testing.T) {
	// Shuffled input of a long chain must still load root first
	const n = 50
	revs := make([]*revision.Revision, n)
	want := make([]string, n)
	for i := 0; i < n; i++ {
		id := string(rune('A'+i%26)) + string(rune('a'+i/26))
		want[i] = id
		parent := ""
		if i > 0 {
			parent = want[i-1]
		}
		revs[i] = rev(id, parent)
	}
	r := rand.New(rand.NewSource(42))
	r.Shuffle(n, func(i, j int) { revs[i], revs[j] = revs[j], revs[i] })

	chain, err := Load(revs)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	path, err := chain.PathTo(revision.Head)
	if err != nil {
		t.Fatalf("PathTo() error = %v", err)
	}
	if got := ids(path); !reflect.DeepEqual(got, want) {
		t.Errorf("PathTo(head) = %v, want %v", got, want)
	}
}

func TestPathTo(t *testing.T) {
	chain := abcChain(t)

	tests := []struct {
		target  string
		want    []string
		wantErr bool
	}{
		{target: "a", want: []string{"a"}},
		{target: "b", want: []string{"a", "b"}},
		{target: revision.Head, want: []string{"a", "b", "c"}},
		{target: revision.Base, want: []string{}},
		{target: "zzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			path, err := chain.PathTo(tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PathTo() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrRevisionNotFound) {
					t.Errorf("error = %v, want ErrRevisionNotFound", err)
				}
				return
			}
			if got := ids(path); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PathTo(%s) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	chain := abcChain(t)

	tests := []struct {
		name       string
		current    string
		target     string
		wantApply  []string
		wantRevert []string
	}{
		{name: "base to head", current: "", target: revision.Head, wantApply: []string{"a", "b", "c"}, wantRevert: []string{}},
		{name: "forward partial", current: "a", target: "c", wantApply: []string{"b", "c"}, wantRevert: []string{}},
		{name: "backward", current: "c", target: "a", wantApply: []string{}, wantRevert: []string{"c", "b"}},
		{name: "full rollback", current: "c", target: revision.Base, wantApply: []string{}, wantRevert: []string{"c", "b", "a"}},
		{name: "same", current: "b", target: "b", wantApply: []string{}, wantRevert: []string{}},
		{name: "head is tip", current: "c", target: revision.Head, wantApply: []string{}, wantRevert: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toApply, toRevert, err := chain.Diff(tt.current, tt.target)
			if err != nil {
				t.Fatalf("Diff() error = %v", err)
			}
			if got := ids(toApply); !reflect.DeepEqual(got, tt.wantApply) {
				t.Errorf("toApply = %v, want %v", got, tt.wantApply)
			}
			if got := ids(toRevert); !reflect.DeepEqual(got, tt.wantRevert) {
				t.Errorf("toRevert = %v, want %v", got, tt.wantRevert)
			}
			if len(toApply) > 0 && len(toRevert) > 0 {
				t.Error("a linear chain never needs both directions")
			}
		})
	}
}

func TestDiff_Convergence(t *testing.T) {
	chain := abcChain(t)
	targets := []string{revision.Base, "a", "b", "c"}

	for _, from := range targets {
		for _, to := range targets {
			if _, _, err := chain.Diff(from, to); err != nil {
				t.Fatalf("Diff(%s, %s) error = %v", from, to, err)
			}
			toApply, toRevert, _ := chain.Diff(to, to)
			if len(toApply) != 0 || len(toRevert) != 0 {
				t.Errorf("Diff(%s, %s) after reaching target not empty", to, to)
			}
		}
	}
}

func TestDiff_UnknownRevision(t *testing.T) {
	chain := abcChain(t)
	if _, _, err := chain.Diff("ghost", "a"); !errors.Is(err, ErrRevisionNotFound) {
		t.Errorf("Diff() error = %v, want ErrRevisionNotFound", err)
	}
}

func TestResolve(t *testing.T) {
	chain, err := Load([]*revision.Revision{
		rev("1344cb533815", ""),
		rev("3f79f6dcc58d", "1344cb533815"),
		rev("3fa1b2c3d4e5", "3f79f6dcc58d"),
		rev("9c0ffee00001", "3fa1b2c3d4e5"),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name      string
		ref       string
		current   string
		want      string
		wantErr   bool
		ambiguous bool
	}{
		{name: "head", ref: "head", want: "9c0ffee00001"},
		{name: "base", ref: "base", want: ""},
		{name: "full id", ref: "3f79f6dcc58d", want: "3f79f6dcc58d"},
		{name: "unique prefix", ref: "134", want: "1344cb533815"},
		{name: "ambiguous prefix", ref: "3f", wantErr: true, ambiguous: true},
		{name: "unknown", ref: "dead", wantErr: true},
		{name: "minus one from current", ref: "-1", current: "3fa1b2c3d4e5", want: "3f79f6dcc58d"},
		{name: "plus two from base", ref: "+2", current: "", want: "3f79f6dcc58d"},
		{name: "minus to base", ref: "-1", current: "1344cb533815", want: ""},
		{name: "below base", ref: "-1", current: "", wantErr: true},
		{name: "past head", ref: "+1", current: "9c0ffee00001", wantErr: true},
		{name: "head minus one", ref: "head-1", want: "3fa1b2c3d4e5"},
		{name: "prefix plus one", ref: "134+1", want: "3f79f6dcc58d"},
		{name: "empty", ref: " ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chain.Resolve(tt.ref, tt.current)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if tt.ambiguous {
				var aerr *AmbiguousRevisionError
				if !errors.As(err, &aerr) || len(aerr.Matches) != 2 {
					t.Errorf("expected AmbiguousRevisionError with 2 matches, got %v", err)
				}
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
