package process

import (
	"os/user"
	"strconv"
	"sync"
)

// UserResolver maps a numeric owner id to a display name.
type UserResolver interface {
	Username(uid uint32) string
}

// SystemUsers resolves uids through the system user database and remembers
// the answers, including misses, for the lifetime of the resolver.
type SystemUsers struct {
	mu     sync.Mutex
	cache  map[uint32]string
	lookup func(uid string) (*user.User, error)
}

func NewSystemUsers() *SystemUsers {
	return &SystemUsers{cache: make(map[uint32]string), lookup: user.LookupId}
}

// Username returns the login name for uid, or the decimal uid when there is
// no mapping.
func (u *SystemUsers) Username(uid uint32) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if name, ok := u.cache[uid]; ok {
		return name
	}
	id := strconv.FormatUint(uint64(uid), 10)
	name := id
	if usr, err := u.lookup(id); err == nil && usr.Username != "" {
		name = usr.Username
	}
	u.cache[uid] = name
	return name
}
