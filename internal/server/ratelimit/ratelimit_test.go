package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AllowsWithinBurst(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/analyses", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		},
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	allowed, info := limiter.Allow("1.2.3.4", "/analyses", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 10, info.Limit)

	allowed, _ = limiter.Allow("1.2.3.4", "/analyses", "POST")
	assert.True(t, allowed)

	// Burst of 2 exhausted; refill rate is far too slow to matter here.
	allowed, info = limiter.Allow("1.2.3.4", "/analyses", "POST")
	require.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsAreIsolated(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/analyses", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1},
		},
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("1.2.3.4", "/analyses", "POST")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("1.2.3.4", "/analyses", "POST")
	assert.False(t, allowed)

	// A different client has its own bucket.
	allowed, _ = limiter.Allow("5.6.7.8", "/analyses", "POST")
	assert.True(t, allowed)
}

func TestLimiter_DisabledAllowsEverything(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("1.2.3.4", "/analyses", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_UnlimitedEndpoint(t *testing.T) {
	limiter := NewLimiter(DefaultConfig())
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := limiter.Allow("1.2.3.4", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_MethodMatters(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/analyses", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1},
		},
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("1.2.3.4", "/analyses", "POST")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("1.2.3.4", "/analyses", "POST")
	assert.False(t, allowed)

	// GET falls through to the lenient default tier.
	allowed, info := limiter.Allow("1.2.3.4", "/analyses", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Enabled)
	assert.NotEmpty(t, cfg.EndpointConfigs)
}
