package database

import (
	"fmt"
	"unicode/utf8"

	"github.com/enset/powledger/foundation/validate"
	"github.com/google/uuid"
)

// TxDataMint marks a transaction where the system creates value for an
// account. A mint transaction is allowed to have the same sender and receiver.
const TxDataMint = "mint"

// =============================================================================

// Tx is the transactional information between two parties. Once a Tx is
// included in a block it is never changed.
type Tx struct {
	ID     string `json:"id" validate:"required"`
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
	Amount int64  `json:"amount" validate:"gte=0"`
	Data   string `json:"data"`
}

// NewTx constructs a new transaction with a unique id.
func NewTx(from string, to string, amount int64, data string) (Tx, error) {
	tx := Tx{
		ID:     uuid.NewString(),
		From:   from,
		To:     to,
		Amount: amount,
		Data:   data,
	}

	if err := tx.Validate(); err != nil {
		return Tx{}, err
	}

	return tx, nil
}

// Validate checks the transaction is well formed.
func (tx Tx) Validate() error {
	if err := validate.Check(tx); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	if !tx.canonical() {
		return fmt.Errorf("%w: tx[%q]: text fields must be valid UTF-8", ErrInvalidTransaction, tx.ID)
	}

	if tx.From == tx.To && !tx.IsMint() {
		return fmt.Errorf("%w: sending money to yourself, from %s, to %s", ErrInvalidTransaction, tx.From, tx.To)
	}

	return nil
}

// canonical reports whether the text fields survive JSON encoding unchanged.
// Invalid UTF-8 is rewritten by the encoder, so two different values would
// hash the same.
func (tx Tx) canonical() bool {
	return utf8.ValidString(tx.ID) && utf8.ValidString(tx.From) && utf8.ValidString(tx.To) && utf8.ValidString(tx.Data)
}

// IsMint tests if the transaction creates value instead of moving it.
func (tx Tx) IsMint() bool {
	return tx.Data == TxDataMint
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:%s->%s:%d", tx.ID, tx.From, tx.To, tx.Amount)
}
