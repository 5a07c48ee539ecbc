package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStudentLocksSerializePerStudent(t *testing.T) {
	locks := NewStudentLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("S1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, counter)
}

func TestStudentLocksIndependentStudents(t *testing.T) {
	locks := NewStudentLocks()

	unlock := locks.Lock("S1")
	defer unlock()

	done := make(chan struct{})
	go func() {
		u := locks.Lock("S2")
		u()
		close(done)
	}()
	<-done
}
