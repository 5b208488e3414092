package database

import (
	"context"
	"fmt"

	"github.com/enset/powledger/foundation/blockchain/signature"
)

// cancelCheckInterval is the number of hash attempts between checks of the
// context for cancellation.
const cancelCheckInterval = 100

// POW performs the work of mining to find a nonce that solves the
// cryptographic puzzle for the candidate at the specified difficulty. The
// search starts at nonce 0. A maxAttempts of 0 means no limit. When the
// context is cancelled or the limit is reached ErrMiningAborted is returned
// and the candidate is not sealed.
func POW(ctx context.Context, c *Candidate, difficulty int, maxAttempts uint64, ev func(v string, args ...any)) (Block, error) {
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	if c.sealed {
		return Block{}, fmt.Errorf("%w: blk[%d]: can't mine a sealed block", ErrDoubleSeal, c.Header.Number)
	}

	ev("database: POW: MINING: started: blk[%d]: difficulty[%d]", c.Header.Number, difficulty)
	defer ev("database: POW: MINING: completed: blk[%d]", c.Header.Number)

	// Log the transactions that are a part of this potential block.
	for _, tx := range c.trans {
		ev("database: POW: MINING: tx[%s]", tx)
	}

	c.Header.Nonce = 0

	// Loop until we find a solution or are told to stop.
	var attempts uint64
	for {
		if attempts%cancelCheckInterval == 0 && ctx.Err() != nil {
			ev("database: POW: MINING: CANCELLED: attempts[%d]", attempts)
			return Block{}, fmt.Errorf("%w: blk[%d]: attempts[%d]: %w", ErrMiningAborted, c.Header.Number, attempts, ctx.Err())
		}

		if maxAttempts > 0 && attempts >= maxAttempts {
			ev("database: POW: MINING: LIMIT REACHED: attempts[%d]", attempts)
			return Block{}, fmt.Errorf("%w: blk[%d]: attempt limit %d reached", ErrMiningAborted, c.Header.Number, maxAttempts)
		}

		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: POW: MINING: attempts[%d]", attempts)
		}

		// Hash the block and check if we have solved the puzzle.
		hash := c.ComputeHash()
		if !IsHashSolved(difficulty, hash) {
			c.Header.Nonce++
			continue
		}

		ev("database: POW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", c.Header.PrevBlockHash, hash, c.Header.Nonce)
		ev("database: POW: MINING: attempts[%d]", attempts)

		return c.Seal(hash)
	}
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading 0's. A difficulty of zero
// or less is solved by any well formed hash.
func IsHashSolved(difficulty int, hash string) bool {
	if len(hash) != signature.HashLength {
		return false
	}

	switch {
	case difficulty <= 0:
		return true
	case difficulty > signature.HashLength:
		return false
	}

	return hash[:difficulty] == signature.ZeroHash[:difficulty]
}
