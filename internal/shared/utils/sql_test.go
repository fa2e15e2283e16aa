package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%rhode%", ContainsPattern("rhode"))
	assert.Equal(t, `%50\%\_off%`, ContainsPattern("50%_off"))
	assert.Equal(t, `%a\\b%`, ContainsPattern(`a\b`))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Rhode Island Red", "island"))
	assert.True(t, ContainsFold("Nairobi", ""))
	assert.False(t, ContainsFold("Leghorn", "silkie"))
}

func TestJoinWithAnd(t *testing.T) {
	assert.Equal(t, "a = $1 AND b = $2", JoinWithAnd([]string{"a = $1", "b = $2"}))
	assert.Equal(t, "", JoinWithAnd(nil))
}
