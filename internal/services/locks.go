package services

import (
	"fmt"
	"sync"
)

// keyedMutex serializes read-modify-write sequences per entity. The
// entity store offers last-write-wins updates only, so without this a
// scheduler tick and a user request touching the same budget or goal
// could lose one of the two writes.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// entityLocks is shared by every service in the process. Lock ordering
// when nesting: income before goal before budget.
var entityLocks = newKeyedMutex()

func budgetKey(userID uint) string { return fmt.Sprintf("budget:%d", userID) }
func goalKey(goalID uint) string { return fmt.Sprintf("goal:%d", goalID) }
func incomeKey(incomeID uint) string { return fmt.Sprintf("income:%d", incomeID) }
