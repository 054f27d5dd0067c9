package hotel

import (
	"errors"
	"sort"
	"sync"
)

var (
	// ErrDuplicateHotel reports that a hotel with the same name is already
	// registered.
	ErrDuplicateHotel = errors.New("hotel already exists")

	// ErrHotelNotFound reports that no hotel is registered under the given
	// name.
	ErrHotelNotFound = errors.New("hotel not found")
)

// Registry holds the handlers of all configured hotels, keyed by name.
type Registry struct {
	mu     sync.RWMutex
	hotels map[string]*Handler
}

// NewRegistry creates an empty hotel registry.
func NewRegistry() *Registry {
	return &Registry{hotels: make(map[string]*Handler)}
}

// AddHotel registers handler under its name.
func (r *Registry) AddHotel(handler *Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hotels[handler.Name()]; ok {
		return ErrDuplicateHotel
	}
	r.hotels[handler.Name()] = handler
	return nil
}

// GetHandler returns the handler registered under name.
func (r *Registry) GetHandler(name string) (*Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, ok := r.hotels[name]
	if !ok {
		return nil, ErrHotelNotFound
	}
	return handler, nil
}

// DeleteHotel unregisters the named hotel and kills all its sessions.
func (r *Registry) DeleteHotel(name string) error {
	r.mu.Lock()
	handler, ok := r.hotels[name]
	if ok {
		delete(r.hotels, name)
	}
	r.mu.Unlock()

	if !ok {
		return ErrHotelNotFound
	}
	handler.KillAll()
	return nil
}

// ListHotels returns the registered hotel names, sorted.
func (r *Registry) ListHotels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.hotels))
	for name := range r.hotels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a snapshot of all registered handlers.
func (r *Registry) All() []*Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Handler, 0, len(r.hotels))
	for _, handler := range r.hotels {
		all = append(all, handler)
	}
	return all
}
