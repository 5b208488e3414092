// Package database handles all the lower level support for maintaining the
// blockchain in memory: constructing, mining and validating blocks.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/enset/powledger/foundation/blockchain/signature"
)

// Config represents the configuration required to construct a chain.
type Config struct {
	Difficulty  int
	MaxAttempts uint64
	EvHandler   func(v string, args ...any)
}

// Database manages the ordered sequence of blocks for a chain. The genesis
// block is created when the Database is constructed.
type Database struct {
	writeMu sync.Mutex
	mu      sync.RWMutex

	difficulty  int
	maxAttempts uint64
	blocks      []Block
	txBlocks    map[string]uint64
	evHandler   func(v string, args ...any)
}

// New constructs a new chain with a genesis block.
func New(cfg Config) (*Database, error) {
	if cfg.Difficulty < 0 || cfg.Difficulty > signature.HashLength {
		return nil, fmt.Errorf("%w: %d, must be between 0 and %d", ErrInvalidDifficulty, cfg.Difficulty, signature.HashLength)
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	genesis, err := Genesis(time.Now())
	if err != nil {
		return nil, err
	}

	ev("database: New: genesis: blk[%s]: difficulty[%d]", genesis.Hash(), cfg.Difficulty)

	db := Database{
		difficulty:  cfg.Difficulty,
		maxAttempts: cfg.MaxAttempts,
		blocks:      []Block{genesis},
		txBlocks:    make(map[string]uint64),
		evHandler:   ev,
	}

	return &db, nil
}

// Difficulty returns the number of leading zeros a block hash needs.
func (db *Database) Difficulty() int {
	return db.difficulty
}

// AddBlock mines a new block holding the specified transactions on top of the
// latest block and appends it to the chain. Calls are serialized so the
// block number and parent hash are strictly ordered. If mining is cancelled
// the chain is left unchanged and ErrMiningAborted is returned.
func (db *Database) AddBlock(ctx context.Context, trans []Tx) (Block, error) {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	if err := db.checkUnsettled(trans); err != nil {
		return Block{}, err
	}

	latestBlock := db.LatestBlock()

	candidate, err := NewCandidate(latestBlock.Header.Number+1, latestBlock.Hash(), trans, time.Now())
	if err != nil {
		return Block{}, err
	}

	// Mining happens without holding the read lock so queries are not
	// blocked while the nonce is searched.
	block, err := POW(ctx, candidate, db.difficulty, db.maxAttempts, db.evHandler)
	if err != nil {
		return Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return Block{}, fmt.Errorf("%w: blk[%d]: %w", ErrMiningAborted, block.Header.Number, ctx.Err())
	}

	db.mu.Lock()
	{
		db.blocks = append(db.blocks, block)
		for _, tx := range block.Trans {
			db.txBlocks[tx.ID] = block.Header.Number
		}
	}
	db.mu.Unlock()

	db.evHandler("database: AddBlock: appended: blk[%d]: hash[%s]", block.Header.Number, block.Hash())

	return block.clone(), nil
}

// checkUnsettled makes sure no transaction appears twice in the block or has
// already settled in an earlier block.
func (db *Database) checkUnsettled(trans []Tx) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	ids := make(map[string]struct{}, len(trans))
	for _, tx := range trans {
		if _, exists := ids[tx.ID]; exists {
			return fmt.Errorf("%w: tx[%s] appears more than once", ErrInvalidBlock, tx.ID)
		}
		ids[tx.ID] = struct{}{}

		if number, exists := db.txBlocks[tx.ID]; exists {
			return fmt.Errorf("%w: tx[%s]: blk[%d]", ErrTxCommitted, tx.ID, number)
		}
	}

	return nil
}

// LookupTx returns the number of the block the transaction settled in.
func (db *Database) LookupTx(id string) (uint64, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	number, exists := db.txBlocks[id]
	return number, exists
}

// Validate re-verifies every block in the chain.
func (db *Database) Validate() Verdict {
	return ValidateBlocks(db.difficulty, db.Blocks(), db.evHandler)
}

// GetBlock returns the block at the specified position in the chain.
func (db *Database) GetBlock(index int) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if index < 0 || index >= len(db.blocks) {
		return Block{}, fmt.Errorf("%w: index[%d]: length[%d]", ErrOutOfRange, index, len(db.blocks))
	}

	return db.blocks[index].clone(), nil
}

// LatestBlock returns the latest block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks[len(db.blocks)-1].clone()
}

// Length returns the number of blocks in the chain, including genesis.
func (db *Database) Length() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.blocks)
}

// Blocks returns a copy of all the blocks starting with genesis.
func (db *Database) Blocks() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blocks := make([]Block, len(db.blocks))
	for i, block := range db.blocks {
		blocks[i] = block.clone()
	}

	return blocks
}
