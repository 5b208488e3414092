package database

import "errors"

// Set of error variables for constructing, mining and reading blocks.
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidBlock       = errors.New("invalid block")
	ErrDoubleSeal         = errors.New("block is already sealed")
	ErrMiningAborted      = errors.New("mining aborted")
	ErrOutOfRange         = errors.New("block index out of range")
	ErrInvalidDifficulty  = errors.New("invalid difficulty")
	ErrTxCommitted        = errors.New("transaction already committed")
)
