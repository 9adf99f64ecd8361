package locker

import (
	"context"
	"fmt"
	"sync"
)

// Locker grants exclusive ownership of a key until the returned release
// function is called. Lock blocks until the key is free or ctx is done.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// Key helpers keep lock names consistent across services.
func BidKey(username, itemID string) string { return fmt.Sprintf("bid:%s:%s", username, itemID) }

func PaymentKey(paymentID string) string { return "payment:" + paymentID }

func SubscriptionKey(username string) string { return "subscription:" + username }

func WinnerKey(winnerID int64) string { return fmt.Sprintf("winner:%d", winnerID) }

// KeyedMutex is an in-process Locker. Entries are reference counted and
// removed once nobody holds or waits for the key.
type KeyedMutex struct {
	mu   sync.Mutex
	keys map[string]*keyEntry
}

type keyEntry struct {
	slot chan struct{}
	refs int
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{keys: make(map[string]*keyEntry)}
}

var _ Locker = (*KeyedMutex)(nil)

// Lock acquires key, honouring ctx cancellation while waiting.
func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.keys[key]
	if !ok {
		e = &keyEntry{slot: make(chan struct{}, 1)}
		k.keys[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		k.unref(key, e)
		return nil, fmt.Errorf("lock %s: %w", key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.slot
			k.unref(key, e)
		})
	}, nil
}

func (k *KeyedMutex) unref(key string, e *keyEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.keys, key)
	}
}

// Len reports how many keys are currently held or awaited.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.keys)
}
