package repositories

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIssueTypeName(t *testing.T) {
	assert.Equal(t, "Не указано", NormalizeIssueTypeName(""))
	assert.Equal(t, "Не указано", NormalizeIssueTypeName("   "))
	assert.Equal(t, "Не охлаждает", NormalizeIssueTypeName("  Не охлаждает  "))

	long := strings.Repeat("а", 300)
	normalized := NormalizeIssueTypeName(long)
	assert.LessOrEqual(t, len([]rune(normalized)), 255)
	assert.True(t, strings.HasSuffix(normalized, "..."))

	exact := strings.Repeat("б", 255)
	assert.Equal(t, exact, NormalizeIssueTypeName(exact))
}
