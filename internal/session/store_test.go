package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreStartsLoggedOut(t *testing.T) {
	s := New()
	assert.Empty(t, s.Token())
	assert.False(t, s.Authenticated())
}

func TestLoginReplacesToken(t *testing.T) {
	s := New()
	s.Login("first")
	assert.Equal(t, "first", s.Token())
	assert.True(t, s.Authenticated())

	s.Login("second")
	assert.Equal(t, "second", s.Token())
}

func TestLogoutClearsToken(t *testing.T) {
	s := New()
	s.Login("tok")
	s.Logout()
	assert.Empty(t, s.Token())
	assert.False(t, s.Authenticated())

	// Logout on an empty store is a no-op, not an error.
	s.Logout()
	assert.Empty(t, s.Token())
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Login("tok")
			s.Logout()
		}()
		go func() {
			defer wg.Done()
			_ = s.Token()
			_ = s.Authenticated()
		}()
	}
	wg.Wait()

	s.Login("final")
	assert.Equal(t, "final", s.Token())
}
