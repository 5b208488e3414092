package database

import (
	"fmt"

	"github.com/enset/powledger/foundation/blockchain/signature"
)

// Finding names the kind of problem validation found in a block.
type Finding string

// Set of findings validation can report.
const (
	FindingBrokenLink       Finding = "broken_link"
	FindingStaleHash        Finding = "stale_hash"
	FindingInsufficientWork Finding = "insufficient_work"
)

// Verdict is the outcome of validating a chain. When Valid is false, Index
// is the first block that failed and Finding says why.
type Verdict struct {
	Valid   bool
	Index   uint64
	Finding Finding
	Detail  string
}

// String implements the fmt.Stringer interface for logging.
func (v Verdict) String() string {
	if v.Valid {
		return "valid"
	}
	return fmt.Sprintf("invalid: blk[%d]: %s: %s", v.Index, v.Finding, v.Detail)
}

// =============================================================================

// ValidateBlocks walks the blocks in order and checks the linkage, the
// recorded hash and the proof of work of each one. The genesis block is
// exempt from the proof of work.
func ValidateBlocks(difficulty int, blocks []Block, ev func(v string, args ...any)) Verdict {
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	if len(blocks) == 0 {
		return Verdict{Finding: FindingBrokenLink, Detail: "chain has no genesis block"}
	}

	for i, block := range blocks {
		var prevBlock *Block
		if i > 0 {
			prevBlock = &blocks[i-1]
		}

		finding, detail := validateBlock(uint64(i), block, prevBlock, difficulty, ev)
		if finding != "" {
			ev("database: ValidateBlocks: blk[%d]: %s: %s", i, finding, detail)
			return Verdict{Index: uint64(i), Finding: finding, Detail: detail}
		}
	}

	return Verdict{Valid: true}
}

// validateBlock checks a single block against its position and parent.
func validateBlock(index uint64, b Block, prevBlock *Block, difficulty int, ev func(v string, args ...any)) (Finding, string) {
	ev("database: ValidateBlocks: validate: blk[%d]: check: block number is its position", index)

	if b.Header.Number != index {
		return FindingBrokenLink, fmt.Sprintf("block number doesn't match position, got %d, exp %d", b.Header.Number, index)
	}

	ev("database: ValidateBlocks: validate: blk[%d]: check: parent hash does match parent block", index)

	expPrevHash := signature.ZeroHash
	if prevBlock != nil {
		expPrevHash = prevBlock.Hash()
	}

	if b.Header.PrevBlockHash != expPrevHash {
		return FindingBrokenLink, fmt.Sprintf("parent block hash doesn't match our known parent, got %s, exp %s", b.Header.PrevBlockHash, expPrevHash)
	}

	ev("database: ValidateBlocks: validate: blk[%d]: check: recorded hash matches block fields", index)

	if hash := b.ComputeHash(); hash != b.Hash() {
		return FindingStaleHash, fmt.Sprintf("recorded hash doesn't match block fields, got %s, exp %s", b.Hash(), hash)
	}

	if prevBlock == nil {
		return "", ""
	}

	ev("database: ValidateBlocks: validate: blk[%d]: check: block hash has been solved", index)

	if !IsHashSolved(difficulty, b.Hash()) {
		return FindingInsufficientWork, fmt.Sprintf("%s doesn't solve difficulty %d", b.Hash(), difficulty)
	}

	return "", ""
}
