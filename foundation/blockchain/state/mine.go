package state

import (
	"context"
	"errors"

	"github.com/enset/powledger/foundation/blockchain/database"
)

// Set of error variables for mining.
var (
	ErrNoTransactions   = errors.New("no transactions in mempool")
	ErrMiningNotAllowed = errors.New("mining is not allowed")
)

// =============================================================================

// MineNewBlock attempts to create a new block with a proper hash that can become
// the next block in the chain. The transactions in the block are removed from
// the mempool only when the block is added to the chain.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.miningMu.Lock()
	defer s.miningMu.Unlock()

	if !s.IsMiningAllowed() {
		return database.Block{}, ErrMiningNotAllowed
	}

	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	// Are there enough transactions in the pool.
	if s.mempool.Count() == 0 {
		return database.Block{}, ErrNoTransactions
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW")

	// Attempt to create a new block by solving the POW puzzle. This can be cancelled.
	trans := s.mempool.PickBest(s.transPerBlock)
	block, err := s.db.AddBlock(ctx, trans)
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MineNewBlock: MINING: remove mined transactions from mempool")

	for _, tx := range block.Trans {
		s.evHandler("state: MineNewBlock: tx[%s] remove", tx)
		s.mempool.Delete(tx)
	}

	return block, nil
}
