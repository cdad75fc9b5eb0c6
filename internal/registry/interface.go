package registry

import (
	"sync"

	"github.com/toolsascode/revmig/internal/revision"
)

// Registry manages revision registration and lookup
type Registry interface {
	// Register registers a revision; a second revision with the same id is rejected
	Register(rev *revision.Revision) error

	// GetAll returns all registered revisions in registration order
	GetAll() []*revision.Revision

	// Get returns a revision by exact id
	Get(id string) (*revision.Revision, bool)

	// Chain validates the registered revisions and orders them
	Chain() (*Chain, error)
}

// GlobalRegistry is the global revision registry instance. Go revision files
// register themselves here from init().
var GlobalRegistry Registry = NewInMemoryRegistry()

// NewInMemoryRegistry creates a new in-memory registry
func NewInMemoryRegistry() Registry {
	return &inMemoryRegistry{
		revisions: make(map[string]*revision.Revision),
	}
}

type inMemoryRegistry struct {
	mu        sync.RWMutex
	revisions map[string]*revision.Revision
	order     []string
}

func (r *inMemoryRegistry) Register(rev *revision.Revision) error {
	if err := checkID(rev); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.revisions[rev.ID]; ok {
		return newGraphError(KindDuplicateID, []string{rev.ID},
			"revision %s registered twice (%s and %s)", rev.ID, sourceOf(existing), sourceOf(rev))
	}
	r.revisions[rev.ID] = rev
	r.order = append(r.order, rev.ID)
	return nil
}

func (r *inMemoryRegistry) GetAll() []*revision.Revision {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*revision.Revision, 0, len(r.order))
	for _, id := range r.order {
		results = append(results, r.revisions[id])
	}
	return results
}

func (r *inMemoryRegistry) Get(id string) (*revision.Revision, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rev, ok := r.revisions[id]
	return rev, ok
}

func (r *inMemoryRegistry) Chain() (*Chain, error) {
	return Load(r.GetAll())
}

func sourceOf(rev *revision.Revision) string {
	if rev.Source == "" {
		return "<code>"
	}
	return rev.Source
}
