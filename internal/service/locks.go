package service

import (
	"sync"
	"time"
)

// sessionLocks serializes answer submissions per session id. The lock is
// held for the duration of one SubmitAnswer call; a caller that cannot
// acquire it within the wait bound is turned away with SESSION_BUSY
// instead of racing the cache read-modify-write on the turn history.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sem  chan struct{}
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// Acquire blocks up to wait for the per-session lock and reports whether
// it was obtained.
func (l *sessionLocks) Acquire(sessionID string, wait time.Duration) bool {
	l.mu.Lock()
	entry, ok := l.locks[sessionID]
	if !ok {
		entry = &sessionLock{sem: make(chan struct{}, 1)}
		l.locks[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
		return true
	default:
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case entry.sem <- struct{}{}:
		return true
	case <-timer.C:
		l.unref(sessionID)
		return false
	}
}

// Release must be called exactly once per successful Acquire.
func (l *sessionLocks) Release(sessionID string) {
	l.mu.Lock()
	entry, ok := l.locks[sessionID]
	l.mu.Unlock()
	if !ok {
		return
	}

	<-entry.sem
	l.unref(sessionID)
}

func (l *sessionLocks) unref(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.locks[sessionID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, sessionID)
	}
}
