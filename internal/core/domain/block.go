package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tx_streamer/internal/utils"
)

var (
	// ErrNegativeBlockNumber indicates that an attempt was made to create or use negative value block number.
	ErrNegativeBlockNumber = errors.New("block number cannot be negative")

	// ErrInvalidBlockHashFormat indicates that a provided string does not conform to the expected block hash.
	ErrInvalidBlockHashFormat = errors.New("invalid block hash format")
)

// Basic regex for Block Hash format validation (0x followed by 64 hex characters).
var ethBlockHashRegex = regexp.MustCompile("^0x[0-9a-fA-F]{64}$")

// BlockNumber represents a block number value object.
type BlockNumber struct {
	value int64
}

// NewBlockNumber creates a new BlockNumber.
func NewBlockNumber(number int64) (BlockNumber, error) {
	if number < 0 {
		return BlockNumber{}, fmt.Errorf("%w: %d", ErrNegativeBlockNumber, number)
	}
	return BlockNumber{value: number}, nil
}

// Value returns the int64 representation of the block number.
func (bn BlockNumber) Value() int64 {
	return bn.value
}

// Hex returns the JSON-RPC quantity encoding of the block number.
func (bn BlockNumber) Hex() string {
	return utils.Int64ToHex(bn.value)
}

// BlockHash represents a validated block hash value object.
type BlockHash struct {
	value string
}

// NewBlockHash creates a new BlockHash.
func NewBlockHash(hash string) (BlockHash, error) {
	cleanHash := strings.ToLower(strings.TrimSpace(hash))
	if !ethBlockHashRegex.MatchString(cleanHash) {
		return BlockHash{}, fmt.Errorf("%w: %s", ErrInvalidBlockHashFormat, hash)
	}
	return BlockHash{value: cleanHash}, nil
}

// String returns the string representation of the block hash.
func (bh BlockHash) String() string {
	return bh.value
}

// Block is a fetched block with its embedded transactions. It is never cached.
type Block struct {
	Number       BlockNumber
	Hash         BlockHash
	Transactions []Transaction
}

// NewBlock is a simple constructor for the Block entity.
func NewBlock(number BlockNumber, hash BlockHash, transactions []Transaction) Block {
	return Block{
		Number:       number,
		Hash:         hash,
		Transactions: transactions,
	}
}

// BlockRef selects the block a subscription streams: either the latest block or a fixed number.
type BlockRef struct {
	number *BlockNumber
}

// LatestBlock returns a reference to the chain head at fetch time.
func LatestBlock() BlockRef {
	return BlockRef{}
}

// BlockAt returns a reference to a fixed block.
func BlockAt(number BlockNumber) BlockRef {
	return BlockRef{number: &number}
}

// IsLatest reports whether the reference resolves to the chain head.
func (r BlockRef) IsLatest() bool {
	return r.number == nil
}

// Number returns the fixed block number; ok is false for the latest reference.
func (r BlockRef) Number() (BlockNumber, bool) {
	if r.number == nil {
		return BlockNumber{}, false
	}
	return *r.number, true
}

// String implements fmt.Stringer.
func (r BlockRef) String() string {
	if r.number == nil {
		return "latest"
	}
	return strconv.FormatInt(r.number.value, 10)
}

// ParseBlockRef parses a client supplied block identifier.
// An empty identifier means latest. Decimal integers and 0x-prefixed hex quantities are accepted;
// everything else, including the literal "latest", fails with ErrInvalidBlockIdentifier.
func ParseBlockRef(raw string) (BlockRef, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return LatestBlock(), nil
	}

	var (
		n   int64
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err = utils.HexToInt64(s)
	} else {
		n, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return BlockRef{}, fmt.Errorf("%w: '%s'", ErrInvalidBlockIdentifier, raw)
	}

	bn, err := NewBlockNumber(n)
	if err != nil {
		return BlockRef{}, fmt.Errorf("%w: %w", ErrInvalidBlockIdentifier, err)
	}
	return BlockAt(bn), nil
}
