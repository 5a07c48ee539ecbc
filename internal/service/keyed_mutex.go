package service

import "sync"

// StudentLocks serialises mutating operations per student so the
// check-then-act sequences in the enrollment and grade engines cannot
// interleave for the same student. Different students proceed in parallel.
type StudentLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStudentLocks() *StudentLocks {
	return &StudentLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given student, creating it on first use.
// Locks are never removed; the population is classroom-sized.
func (l *StudentLocks) Lock(studentID string) func() {
	l.mu.Lock()
	m, ok := l.locks[studentID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[studentID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
