// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/enset/powledger/foundation/blockchain/database"
)

// ErrDuplicateTransaction is returned when a transaction with the same id
// is already waiting in the pool.
var ErrDuplicateTransaction = errors.New("transaction already in mempool")

// =============================================================================

// Mempool represents a cache of transactions waiting to be mined, keyed by
// transaction id. Transactions are handed out in the order they arrived,
// which is the order they settle in a block.
type Mempool struct {
	mu    sync.RWMutex
	pool  map[string]database.Tx
	order []string
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{
		pool: make(map[string]database.Tx),
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Insert adds a transaction to the end of the pool and returns the number
// of transactions in the pool.
func (mp *Mempool) Insert(tx database.Tx) (int, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.pool[tx.ID]; exists {
		return len(mp.pool), fmt.Errorf("%w: tx[%s]", ErrDuplicateTransaction, tx.ID)
	}

	mp.pool[tx.ID] = tx
	mp.order = append(mp.order, tx.ID)

	return len(mp.pool), nil
}

// Delete removes a transaction from the mempool.
func (mp *Mempool) Delete(tx database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.pool[tx.ID]; !exists {
		return
	}

	delete(mp.pool, tx.ID)
	if i := slices.Index(mp.order, tx.ID); i >= 0 {
		mp.order = slices.Delete(mp.order, i, i+1)
	}
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]database.Tx)
	mp.order = nil
}

// Copy returns a list of the current transaction in the pool in arrival order.
func (mp *Mempool) Copy() []database.Tx {
	return mp.PickBest(-1)
}

// PickBest returns the next set of transactions for the next block in the
// order they arrived. A value of -1 for howMany returns all of them.
func (mp *Mempool) PickBest(howMany int) []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if howMany < 0 || howMany > len(mp.order) {
		howMany = len(mp.order)
	}

	trans := make([]database.Tx, howMany)
	for i, id := range mp.order[:howMany] {
		trans[i] = mp.pool[id]
	}

	return trans
}
