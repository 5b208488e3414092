// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"sync"

	"github.com/enset/powledger/foundation/blockchain/database"
	"github.com/enset/powledger/foundation/blockchain/mempool"
)

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
	MineBlock(ctx context.Context) (database.Block, error)
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Difficulty    int
	TransPerBlock int
	MaxAttempts   uint64
	AutoMine      bool
	EvHandler     EventHandler
}

// State manages the blockchain database.
type State struct {
	mu       sync.RWMutex
	miningMu sync.Mutex

	transPerBlock int
	autoMine      bool
	allowMining   bool
	evHandler     EventHandler

	db      *database.Database
	mempool *mempool.Mempool

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	// Construct the chain with its genesis block.
	db, err := database.New(database.Config{
		Difficulty:  cfg.Difficulty,
		MaxAttempts: cfg.MaxAttempts,
		EvHandler:   ev,
	})
	if err != nil {
		return nil, err
	}

	transPerBlock := cfg.TransPerBlock
	if transPerBlock <= 0 {
		transPerBlock = -1
	}

	// Create the State to provide support for managing the blockchain.
	state := State{
		transPerBlock: transPerBlock,
		autoMine:      cfg.AutoMine,
		allowMining:   true,
		evHandler:     ev,

		db:      db,
		mempool: mempool.New(),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	s.mu.Lock()
	{
		s.allowMining = false
	}
	s.mu.Unlock()

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// IsMiningAllowed identifies if we are allowed to mine blocks.
func (s *State) IsMiningAllowed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.allowMining
}
