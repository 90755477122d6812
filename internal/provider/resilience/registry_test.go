package resilience_test

import (
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fasalmitra/fasalmitra/internal/provider/resilience"
)

func TestRegistry_Health(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register("open-meteo", resilience.NewClient(resilience.DefaultClientConfig("open-meteo")))

	health, ok := registry.Health("open-meteo")
	require.True(t, ok)

	assert.Equal(t, "open-meteo", health.Name)
	assert.Equal(t, gobreaker.StateClosed, health.CircuitState)
	assert.True(t, health.IsHealthy())
}

func TestRegistry_Health_Unregistered(t *testing.T) {
	registry := resilience.NewRegistry()

	_, ok := registry.Health("nothing")
	assert.False(t, ok)
}

func TestRegistry_AllHealth(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register("open-meteo", resilience.NewClient(resilience.DefaultClientConfig("open-meteo")))
	registry.Register("openweathermap", resilience.NewClient(resilience.DefaultClientConfig("openweathermap")))

	health := registry.AllHealth()
	assert.Len(t, health, 2)

	names := []string{health[0].Name, health[1].Name}
	assert.ElementsMatch(t, []string{"open-meteo", "openweathermap"}, names)
}

func TestProviderHealth_IsHealthy(t *testing.T) {
	assert.True(t, resilience.ProviderHealth{CircuitState: gobreaker.StateClosed}.IsHealthy())
	assert.False(t, resilience.ProviderHealth{CircuitState: gobreaker.StateOpen}.IsHealthy())
	assert.False(t, resilience.ProviderHealth{CircuitState: gobreaker.StateHalfOpen}.IsHealthy())
}
