package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/cruxlabs/cruxd/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaims_AppendPreservesInsertionOrder(t *testing.T) {
	s := NewClaims()
	s.Append(models.NewClaim("first", "test"))
	s.Append(models.NewClaim("second", "test"))
	s.Append(models.NewClaim("third", "test"))

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Text)
	assert.Equal(t, "second", all[1].Text)
	assert.Equal(t, "third", all[2].Text)
}

func TestClaims_AllReturnsCopy(t *testing.T) {
	s := NewClaims()
	s.Append(models.NewClaim("original", "test"))

	all := s.All()
	all[0].Text = "mutated"

	assert.Equal(t, "original", s.All()[0].Text)
}

func TestClaims_ConcurrentAppends(t *testing.T) {
	s := NewClaims()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Append(models.NewClaim(fmt.Sprintf("claim %d", n), "test"))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
