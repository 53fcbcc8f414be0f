package cache

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	// Test if memcached is available
	_, err := mc.client.Get("test")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	// Set a cooldown-style value
	err = mc.Set("zalando_rate_limited", []byte("300"), 1*time.Second)
	assert.NoError(t, err)

	// Get the value
	value, err := mc.Get("zalando_rate_limited")
	assert.NoError(t, err)
	assert.Equal(t, "300", string(value))

	// Delete the value
	err = mc.Delete("zalando_rate_limited")
	assert.NoError(t, err)

	// Try to get the deleted value
	_, err = mc.Get("zalando_rate_limited")
	assert.Error(t, err)
}

func TestMemcacheServiceImplementsInterface(t *testing.T) {
	var _ CacheService = (*MemcacheService)(nil)
}
