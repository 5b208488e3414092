package state

import (
	"fmt"

	"github.com/enset/powledger/foundation/blockchain/database"
)

// SubmitTransaction accepts a transaction for inclusion in a future block.
func (s *State) SubmitTransaction(tx database.Tx) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	if number, exists := s.db.LookupTx(tx.ID); exists {
		return fmt.Errorf("%w: tx[%s]: blk[%d]", database.ErrTxCommitted, tx.ID, number)
	}

	n, err := s.mempool.Insert(tx)
	if err != nil {
		return err
	}

	s.evHandler("state: SubmitTransaction: tx[%s] accepted: mempool[%d]", tx, n)

	if s.autoMine && s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}
