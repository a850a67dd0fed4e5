package process

import (
	"errors"
	"os/user"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemUsersResolvesAndCaches(t *testing.T) {
	calls := 0
	u := NewSystemUsers()
	u.lookup = func(id string) (*user.User, error) {
		calls++
		if id == "1000" {
			return &user.User{Uid: id, Username: "alice"}, nil
		}
		return nil, user.UnknownUserIdError(42)
	}

	assert.Equal(t, "alice", u.Username(1000))
	assert.Equal(t, "alice", u.Username(1000))
	assert.Equal(t, "4242", u.Username(4242))
	assert.Equal(t, "4242", u.Username(4242))
	assert.Equal(t, 2, calls, "answers, including misses, are cached")
}

func TestSystemUsersEmptyNameFallsBack(t *testing.T) {
	u := NewSystemUsers()
	u.lookup = func(id string) (*user.User, error) { return &user.User{Uid: id}, nil }
	assert.Equal(t, "7", u.Username(7))

	u = NewSystemUsers()
	u.lookup = func(string) (*user.User, error) { return nil, errors.New("nss down") }
	assert.Equal(t, "0", u.Username(0))
}
