// Package session holds the in-memory authentication state. The Store
// is an explicit, injectable container: the request pipeline and the
// UI collaborator share one instance by reference, and every mutation
// goes through a named transition.
package session

import (
	"sync"

	"github.com/asgsolar/luxclient/internal/domain"
)

// Session is a point-in-time snapshot of the authentication state.
// IsAuthenticated is true iff both User and Token are set. Loading is
// true only while bootstrap or an explicit login/refresh is in flight.
type Session struct {
	User            *domain.User
	Token           *domain.AuthToken
	IsAuthenticated bool
	Loading         bool
	Error           string
}

// Store is the session container. Get returns a snapshot; the pointer
// fields refer to copies, so callers may not observe later transitions
// through them.
type Store struct {
	mu sync.RWMutex
	s  Session
}

// NewStore creates an empty, logged-out session container.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current snapshot.
func (st *Store) Get() Session {
	st.mu.RLock()
	defer st.mu.RUnlock()

	snap := st.s
	if st.s.User != nil {
		u := *st.s.User
		snap.User = &u
	}
	if st.s.Token != nil {
		t := *st.s.Token
		snap.Token = &t
	}
	return snap
}

// SetLoading flags a bootstrap or explicit login/refresh in flight.
func (st *Store) SetLoading(v bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Loading = v
}

// SetError records a user-facing error message. Empty clears it.
func (st *Store) SetError(msg string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Error = msg
}

// Login installs a user and token pair, authenticating the session.
func (st *Store) Login(user domain.User, token domain.AuthToken) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.User = &user
	st.s.Token = &token
	st.s.IsAuthenticated = true
	st.s.Loading = false
	st.s.Error = ""
}

// TokenRefreshed replaces the token, superseding the previous pair.
func (st *Store) TokenRefreshed(token domain.AuthToken) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Token = &token
	st.s.IsAuthenticated = st.s.User != nil
}

// UpdateUser replaces the user record, keeping the session's
// authentication status consistent. No-op when logged out.
func (st *Store) UpdateUser(user domain.User) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.s.User == nil {
		return
	}
	st.s.User = &user
	st.s.IsAuthenticated = st.s.Token != nil
}

// Logout resets the session to its empty state. The container itself
// is never destroyed, only reset.
func (st *Store) Logout() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s = Session{}
}
