package state

import "github.com/enset/powledger/foundation/blockchain/database"

// RetrieveDifficulty returns the difficulty of the chain.
func (s *State) RetrieveDifficulty() int {
	return s.db.Difficulty()
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveBlock returns a copy of the block at the specified index.
func (s *State) RetrieveBlock(index int) (database.Block, error) {
	return s.db.GetBlock(index)
}

// RetrieveBlocks returns a copy of every block starting with genesis.
func (s *State) RetrieveBlocks() []database.Block {
	return s.db.Blocks()
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// ValidateChain re-verifies the entire chain.
func (s *State) ValidateChain() database.Verdict {
	return s.db.Validate()
}
