package generator

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPattern_ProducesMatchingStrings(t *testing.T) {
	patterns := []string{
		`^[A-Z]{2}[0-9]{4}$`,
		`^(foo|bar|baz)$`,
		`^v[0-9]+\.[0-9]+$`,
		`^[a-f0-9]{8}$`,
		`colou?r`,
		`^item-[0-9]*$`,
		`^.{3}$`,
		`^\d{2,5}$`,
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			re := regexp.MustCompile(pattern)
			for i := 0; i < 25; i++ {
				val, err := fromPattern(pattern)
				require.NoError(t, err)
				assert.Regexp(t, re, val)
			}
		})
	}
}

func TestFromPattern_InvalidPattern(t *testing.T) {
	_, err := fromPattern(`[unterminated`)
	assert.Error(t, err)
}

func TestFromPattern_UnboundedRepeatStaysSmall(t *testing.T) {
	for i := 0; i < 25; i++ {
		val, err := fromPattern(`^a+$`)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(val), patternMaxRepeats)
		assert.GreaterOrEqual(t, len(val), 1)
	}
}
