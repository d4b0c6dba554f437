package cache_test

import (
	"testing"
	"todoapi/shared/cache"

	"github.com/stretchr/testify/assert"
)

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "limiter:10.0.0.1:curl/8.0", cache.BuildKey("limiter", "10.0.0.1", "curl/8.0"))
	assert.Equal(t, "limiter", cache.BuildKey("limiter"))
}
