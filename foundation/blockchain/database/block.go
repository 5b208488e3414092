package database

import (
	"fmt"
	"time"

	"github.com/enset/powledger/foundation/blockchain/signature"
)

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64 `json:"index"`           // Position of the block in the chain, genesis is 0.
	TimeStamp     int64  `json:"timestamp"`       // Unix milliseconds, fixed before mining starts.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block, ZeroHash for genesis.
	Nonce         uint64 `json:"nonce"`           // Value identified to solve the hash solution.
}

// blockPayload is the canonical form of a block that is hashed. The order of
// the fields here is the order they are encoded.
type blockPayload struct {
	BlockHeader
	Trans []Tx `json:"trans"`
}

// hashBlock computes the digest for the header and transactions. Blocks with
// text that has no canonical form have no hash.
func hashBlock(header BlockHeader, trans []Tx) string {
	for _, tx := range trans {
		if !tx.canonical() {
			return ""
		}
	}

	if trans == nil {
		trans = []Tx{}
	}

	return signature.Hash(blockPayload{
		BlockHeader: header,
		Trans:       trans,
	})
}

// =============================================================================

// Candidate is a block that is still being mined. It is the only form of a
// block where the nonce can change. Sealing a candidate produces a Block.
type Candidate struct {
	Header BlockHeader
	trans  []Tx
	sealed bool
}

// NewCandidate constructs a block to be mined. The timestamp is recorded
// now so the hash search is reproducible for a given nonce.
func NewCandidate(number uint64, prevBlockHash string, trans []Tx, timeStamp time.Time) (*Candidate, error) {
	switch {
	case number == 0 && prevBlockHash == "":
		prevBlockHash = signature.ZeroHash

	case prevBlockHash == "":
		return nil, fmt.Errorf("%w: blk[%d]: missing previous block hash", ErrInvalidBlock, number)
	}

	if !signature.IsHash(prevBlockHash) {
		return nil, fmt.Errorf("%w: blk[%d]: malformed previous block hash %q", ErrInvalidBlock, number, prevBlockHash)
	}

	for _, tx := range trans {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("%w: blk[%d]: tx[%s]: %w", ErrInvalidBlock, number, tx.ID, err)
		}
	}

	c := Candidate{
		Header: BlockHeader{
			Number:        number,
			TimeStamp:     timeStamp.UTC().UnixMilli(),
			PrevBlockHash: prevBlockHash,
			Nonce:         0,
		},
		trans: append([]Tx{}, trans...),
	}

	return &c, nil
}

// Trans returns a copy of the transactions in the candidate.
func (c *Candidate) Trans() []Tx {
	return append([]Tx{}, c.trans...)
}

// ComputeHash returns the hash for the candidate as it is right now. It does
// not change the candidate.
func (c *Candidate) ComputeHash() string {
	return hashBlock(c.Header, c.trans)
}

// Seal records the final hash for the candidate and returns the sealed block.
// The hash must be the hash of the candidate at the current nonce. A
// candidate can only be sealed once.
func (c *Candidate) Seal(hash string) (Block, error) {
	if c.sealed {
		return Block{}, fmt.Errorf("%w: blk[%d]", ErrDoubleSeal, c.Header.Number)
	}

	if exp := c.ComputeHash(); hash != exp {
		return Block{}, fmt.Errorf("%w: blk[%d]: hash doesn't match block, got %s, exp %s", ErrInvalidBlock, c.Header.Number, hash, exp)
	}

	c.sealed = true

	b := Block{
		Header: c.Header,
		Trans:  append([]Tx{}, c.trans...),
		hash:   hash,
	}

	return b, nil
}

// =============================================================================

// Block represents a sealed group of transactions batched together. A Block
// can only be constructed by sealing a Candidate or by loading BlockData.
type Block struct {
	Header BlockHeader
	Trans  []Tx
	hash   string
}

// Genesis constructs the first block of a chain. The genesis block anchors
// the chain and is not required to solve the proof of work.
func Genesis(timeStamp time.Time) (Block, error) {
	c, err := NewCandidate(0, signature.ZeroHash, nil, timeStamp)
	if err != nil {
		return Block{}, err
	}

	return c.Seal(c.ComputeHash())
}

// Hash returns the hash recorded when the block was sealed.
func (b Block) Hash() string {
	return b.hash
}

// ComputeHash recomputes the hash from the fields stored in the block.
func (b Block) ComputeHash() string {
	return hashBlock(b.Header, b.Trans)
}

// clone returns a copy of the block that shares no memory with b.
func (b Block) clone() Block {
	b.Trans = append([]Tx{}, b.Trans...)
	return b
}

// =============================================================================

// BlockData represents what is exchanged with anything outside the ledger.
type BlockData struct {
	Hash   string      `json:"hash"`
	Header BlockHeader `json:"block"`
	Trans  []Tx        `json:"trans"`
}

// NewBlockData constructs the value to serialize.
func NewBlockData(block Block) BlockData {
	return BlockData{
		Hash:   block.Hash(),
		Header: block.Header,
		Trans:  append([]Tx{}, block.Trans...),
	}
}

// ToBlock converts a BlockData into a Block. The recorded hash is kept as is,
// use ValidateBlocks to check it against the block fields.
func ToBlock(blockData BlockData) (Block, error) {
	if !signature.IsHash(blockData.Hash) {
		return Block{}, fmt.Errorf("%w: blk[%d]: malformed hash %q", ErrInvalidBlock, blockData.Header.Number, blockData.Hash)
	}

	b := Block{
		Header: blockData.Header,
		Trans:  append([]Tx{}, blockData.Trans...),
		hash:   blockData.Hash,
	}

	return b, nil
}
