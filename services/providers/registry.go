package providers

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/upb/travel-gateway/models"
)

var (
	// ErrProviderNotFound is returned when a provider is not registered
	ErrProviderNotFound = errors.New("provider not found")

	// ErrProviderAlreadyRegistered is returned when trying to register a duplicate provider
	ErrProviderAlreadyRegistered = errors.New("provider already registered")

	// ErrKindNotSupported is returned when no builder exists for a provider kind
	ErrKindNotSupported = errors.New("provider kind not supported")
)

// Registry keeps the descriptors of every configured provider
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Descriptor
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Descriptor),
	}
}

// RegisterProvider registers a provider descriptor
func (r *Registry) RegisterProvider(desc Descriptor) error {
	if desc.Name == "" {
		return errors.New("provider name cannot be empty")
	}
	op, ok := desc.Kind.Operation()
	if !ok {
		return fmt.Errorf("%w: %s", ErrKindNotSupported, desc.Kind)
	}
	desc.Operation = op

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[desc.Name]; exists {
		return fmt.Errorf("%w: %s", ErrProviderAlreadyRegistered, desc.Name)
	}
	r.providers[desc.Name] = desc
	return nil
}

// GetProvider retrieves a provider descriptor by name
func (r *Registry) GetProvider(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, exists := r.providers[name]
	if !exists {
		return Descriptor{}, ErrProviderNotFound
	}
	return desc, nil
}

// ListProviders returns all registered provider names, sorted
func (r *Registry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListForOperation returns the descriptors serving an operation, sorted by name
func (r *Registry) ListForOperation(op models.Operation) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Descriptor
	for _, desc := range r.providers {
		if desc.Operation == op {
			out = append(out, desc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetProviderCount returns the number of registered providers
func (r *Registry) GetProviderCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.providers)
}
