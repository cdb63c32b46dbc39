// internal/session/user.go
package session

import (
	"sync"

	"github.com/vadr-vr/vrtrace/internal/types"
)

// UserData holds the user identity and any extra user attributes. It is
// composed into the session extra bag at payload-build time only.
type UserData struct {
	mu     sync.Mutex
	userID string
	extra  map[string]string
}

// NewUserData returns an empty UserData.
func NewUserData() *UserData {
	return &UserData{extra: make(map[string]string)}
}

// SetID sets the user id. Without override an already-set id is kept, so the
// first identification wins across SDK surfaces.
func (u *UserData) SetID(id string, override bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if override || u.userID == "" {
		u.userID = id
	}
}

// SetInfo sets one extra user attribute such as age or gender.
func (u *UserData) SetInfo(key, value string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.extra[key] = value
}

// Dictionary returns the wire form of the user block. An unidentified user
// falls back to the device id.
func (u *UserData) Dictionary(fallback types.DeviceID) map[string]any {
	u.mu.Lock()
	defer u.mu.Unlock()

	dict := make(map[string]any, len(u.extra)+1)
	id := u.userID
	if id == "" {
		id = string(fallback)
	}
	dict["userId"] = id
	for k, v := range u.extra {
		dict[k] = v
	}
	return dict
}
