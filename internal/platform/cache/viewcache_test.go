package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyNamespacing(t *testing.T) {
	assert.Equal(t, "view:benchmarks", Key(ViewBenchmarks))
	assert.Equal(t, "view:admin:benchmarks", Key(ViewAdminBenchmarks))
	assert.Equal(t, "view:submissions", Key(ViewSubmissions))
	assert.Equal(t, "view:admin:queue", Key(ViewAdminQueue))
	assert.Equal(t, "view:benchmark:todo-app-sprint", Key(ViewBenchmark("todo-app-sprint")))
}

func TestViewBenchmarkDistinctPerID(t *testing.T) {
	assert.NotEqual(t, ViewBenchmark("a"), ViewBenchmark("b"))
	assert.NotEqual(t, ViewBenchmark("a"), ViewBenchmarks)
}

func TestNewViewCacheNilClient(t *testing.T) {
	assert.Nil(t, NewViewCache(nil, time.Minute))
}

// A nil cache is the disabled mode; every operation must be a safe no-op.
func TestNilViewCacheIsNoop(t *testing.T) {
	var c *ViewCache
	ctx := context.Background()

	var dest []string
	assert.False(t, c.Get(ctx, ViewBenchmarks, &dest))
	assert.Empty(t, dest)

	c.Set(ctx, ViewBenchmarks, []string{"x"})
	c.Invalidate(ctx, ViewBenchmarks, ViewSubmissions)
	c.Close()
}
