package session

import (
	"fmt"

	"github.com/riyarao-9-12/collaborative-drawing/pkg/config"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/protocol"
)

// User is a registry entry for one live connection. Color and username are
// assigned once at join time; only the cursor fields change afterwards, and
// only through cursor-move events from the same connection.
type User struct {
	ID       string
	Color    string
	Username string
	CursorX  float64
	CursorY  float64
}

// Registry maps connection identities to their display identity. It is not
// safe for concurrent use; the Coordinator serializes all access.
type Registry struct {
	palette []string
	users   map[string]*User
	order   []string
}

// NewRegistry creates an empty registry drawing colors from palette. An
// empty palette falls back to the default one so Join can always assign a
// color.
func NewRegistry(palette []string) *Registry {
	if len(palette) == 0 {
		palette = config.DefaultPalette
	}
	return &Registry{
		palette: palette,
		users:   make(map[string]*User),
	}
}

// Join allocates a registry entry for the given connection id. The color is
// palette[size mod len(palette)] and the username "User<size+1>", both taken
// from the registry size at join time. Neither is unique once users have
// left and rejoined; that matches the source design.
func (r *Registry) Join(id string) *User {
	size := len(r.users)
	user := &User{
		ID:       id,
		Color:    r.palette[size%len(r.palette)],
		Username: fmt.Sprintf("User%d", size+1),
	}
	r.users[id] = user
	r.order = append(r.order, id)
	return user
}

// Leave removes the entry for id. Absent ids are a no-op, not an error.
func (r *Registry) Leave(id string) {
	if _, ok := r.users[id]; !ok {
		return
	}
	delete(r.users, id)
	for i, uid := range r.order {
		if uid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// UpdateCursor overwrites the cursor position for id. Returns false without
// side effects when id is not registered.
func (r *Registry) UpdateCursor(id string, x, y float64) bool {
	user, ok := r.users[id]
	if !ok {
		return false
	}
	user.CursorX = x
	user.CursorY = y
	return true
}

// Get returns the entry for id.
func (r *Registry) Get(id string) (*User, bool) {
	user, ok := r.users[id]
	return user, ok
}

// Size returns the number of registered users.
func (r *Registry) Size() int {
	return len(r.users)
}

// List returns a snapshot of all users in insertion order, in the shape
// userListUpdate broadcasts carry. Callers must not attach positional
// meaning to the order.
func (r *Registry) List() []protocol.UserInfo {
	list := make([]protocol.UserInfo, 0, len(r.order))
	for _, id := range r.order {
		user, ok := r.users[id]
		if !ok {
			continue
		}
		list = append(list, protocol.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Color:    user.Color,
		})
	}
	return list
}
