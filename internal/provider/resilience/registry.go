package resilience

import (
	"sync"

	"github.com/sony/gobreaker/v2"
)

// ProviderHealth is a snapshot of one provider's circuit state, reported
// by the ops status endpoint.
type ProviderHealth struct {
	// Name is the provider identifier.
	Name string

	// CircuitState is the current circuit breaker state.
	CircuitState gobreaker.State

	// Counts contains circuit breaker statistics.
	Counts gobreaker.Counts
}

// IsHealthy reports whether the provider circuit is closed.
func (h ProviderHealth) IsHealthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// Registry tracks the provider clients so their health can be reported.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Register adds a provider client under a name. Re-registering a name
// replaces the previous client.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
}

// Health returns the health snapshot for one provider, or false when the
// name is not registered.
func (r *Registry) Health(name string) (ProviderHealth, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[name]
	if !ok {
		return ProviderHealth{}, false
	}
	return ProviderHealth{
		Name:         name,
		CircuitState: client.CircuitBreakerState(),
		Counts:       client.CircuitBreakerCounts(),
	}, true
}

// AllHealth returns health snapshots for every registered provider.
func (r *Registry) AllHealth() []ProviderHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]ProviderHealth, 0, len(r.clients))
	for name, client := range r.clients {
		health = append(health, ProviderHealth{
			Name:         name,
			CircuitState: client.CircuitBreakerState(),
			Counts:       client.CircuitBreakerCounts(),
		})
	}
	return health
}
