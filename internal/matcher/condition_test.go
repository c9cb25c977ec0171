package matcher

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRegexCachesByPattern(t *testing.T) {
	re1, err := compileRegex("^abc$")
	require.NoError(t, err)
	re2, err := compileRegex("^abc$")
	require.NoError(t, err)
	assert.Same(t, re1, re2)
}

// TestCompileRegexConcurrentAccess guards against the regexCache being a
// plain map shared across every pooled *state.State instance: concurrent
// writers to an unsynchronized map panic the runtime.
func TestCompileRegexConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pattern := fmt.Sprintf("^pattern-%d$", i%10)
			_, err := compileRegex(pattern)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}
