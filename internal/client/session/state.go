package session

import "sync"

// User is the profile kept in memory while logged in.
type User struct {
	ID           string
	Email        string
	Name         string
	Phone        string
	ProfileImage string
}

// State holds the in-memory session. The zero value is not usable; use NewState.
type State struct {
	mu     sync.RWMutex
	user   *User
	subs   map[int]func(*User)
	nextID int
}

func NewState() *State {
	return &State{subs: make(map[int]func(*User))}
}

// User returns a copy of the current user and whether one is set.
func (s *State) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *State) IsAuthenticated() bool {
	_, ok := s.User()
	return ok
}

// Set replaces the current user and notifies subscribers.
func (s *State) Set(u User) {
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	s.notify()
}

// Clear drops the current user and notifies subscribers.
func (s *State) Clear() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	s.notify()
}

// Subscribe registers fn to be called after every change with the new user
// (nil when cleared). It returns a function that removes the subscription.
func (s *State) Subscribe(fn func(*User)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *State) notify() {
	s.mu.RLock()
	var current *User
	if s.user != nil {
		u := *s.user
		current = &u
	}
	fns := make([]func(*User), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(current)
	}
}
