package ledger

import "sync"

// providerLocks мьютексы по врачу. Запись удаляется, когда её никто не держит и не ждет.
type providerLocks struct {
	mu    sync.Mutex
	locks map[int64]*providerLock
}

type providerLock struct {
	mu   sync.Mutex
	refs int
}

func newProviderLocks() *providerLocks {
	return &providerLocks{locks: make(map[int64]*providerLock)}
}

// Lock захватывает мьютекс врача и возвращает функцию освобождения
func (l *providerLocks) Lock(providerID int64) func() {
	l.mu.Lock()
	lock, ok := l.locks[providerID]
	if !ok {
		lock = &providerLock{}
		l.locks[providerID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, providerID)
		}
		l.mu.Unlock()
	}
}

func (l *providerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
