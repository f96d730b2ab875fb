package store

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAccountLockKey(t *testing.T) {
	a := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	b := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad3")

	assert.Equal(t, accountLockKey(a), accountLockKey(a))
	assert.NotEqual(t, accountLockKey(a), accountLockKey(b))
}

func TestSumsQuery_SingleStatement(t *testing.T) {
	q := sumsQuery("$1")

	assert.Equal(t, 1, strings.Count(q, "SELECT"))
	assert.Equal(t, 5, strings.Count(q, "FILTER"))
	assert.NotContains(t, q, "%!")
	assert.Contains(t, selectSnapshot, "a.id OR from_account_id = a.id")
}
