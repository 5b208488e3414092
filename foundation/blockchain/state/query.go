package state

import "github.com/enset/powledger/foundation/blockchain/database"

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryBlocksByAccount returns the set of blocks with a transaction sent or
// received by the account. If the account is empty, all blocks are returned.
func (s *State) QueryBlocksByAccount(account string) []database.Block {
	blocks := s.db.Blocks()
	if account == "" {
		return blocks
	}

	var out []database.Block
	for _, block := range blocks {
		for _, tx := range block.Trans {
			if tx.From == account || tx.To == account {
				out = append(out, block)
				break
			}
		}
	}

	return out
}
