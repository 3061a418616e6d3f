package layout

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry stores validated layouts by name.
type Registry struct {
	mu      sync.RWMutex
	layouts map[string]Layout
}

func NewRegistry() *Registry {
	return &Registry{
		layouts: make(map[string]Layout),
	}
}

func (r *Registry) Register(l Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.layouts[l.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, l.Name)
	}
	r.layouts[l.Name] = l
	log.Debug().Str("layout", l.Name).Int("size", l.Size).Msg("layout registered")
	return nil
}

func (r *Registry) Get(name string) (Layout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.layouts[name]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %s", ErrUnknownLayout, name)
	}
	return l, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
