package prescription

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^RX-\d{8}-\d{6}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		number, err := generateNumber()
		require.NoError(t, err)
		assert.Regexp(t, pattern, number)
		seen[number] = struct{}{}
	}
	// Random suffixes should not all collide.
	assert.Greater(t, len(seen), 1)
}
