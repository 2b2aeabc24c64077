package resilience

import "sync"

// KeyedMutex provides mutual exclusion per string key. Used to guard
// per-tier registry updates when adjacent tiers transition concurrently.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *KeyedMutex) Lock(key string) {
	k.lockFor(key).Lock()
}

func (k *KeyedMutex) Unlock(key string) {
	k.lockFor(key).Unlock()
}

func (k *KeyedMutex) lockFor(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}
