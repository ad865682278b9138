package domain

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"tx_streamer/internal/utils"
)

// ErrInvalidTransactionHashFormat indicates invalid transaction hash format.
var ErrInvalidTransactionHashFormat = errors.New("invalid transaction hash format")

// Basic regex for Transaction Hash format validation (0x followed by 64 hex characters).
var ethTxHashRegex = regexp.MustCompile("^0x[0-9a-fA-F]{64}$")

// TransactionHash represents a validated transaction hash value object.
type TransactionHash struct {
	value string
}

// NewTransactionHash creates a new TransactionHash.
func NewTransactionHash(hash string) (TransactionHash, error) {
	cleanHash := strings.ToLower(strings.TrimSpace(hash))
	if !ethTxHashRegex.MatchString(cleanHash) {
		return TransactionHash{}, fmt.Errorf("%w: %s", ErrInvalidTransactionHashFormat, hash)
	}
	return TransactionHash{value: cleanHash}, nil
}

// String returns the string representation of the transaction hash.
func (th TransactionHash) String() string {
	return th.value
}

// ErrInvalidWeiValueFormat indicates that the provided string is not a valid Wei value format.
var ErrInvalidWeiValueFormat = errors.New("invalid wei value format")

// weiPerEther is 10^18.
var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// WeiValue is a non-negative amount of wei.
type WeiValue struct {
	value *big.Int
}

// NewWeiValue parses a hex quantity ("0x...") or a base-10 string.
func NewWeiValue(s string) (WeiValue, error) {
	trimmedStr := strings.TrimSpace(s)
	if trimmedStr == "" {
		return WeiValue{}, fmt.Errorf("%w: input string is empty", ErrInvalidWeiValueFormat)
	}

	if strings.HasPrefix(trimmedStr, "0x") || strings.HasPrefix(trimmedStr, "0X") {
		val, err := utils.HexToBigInt(trimmedStr)
		if err != nil {
			return WeiValue{}, fmt.Errorf("%w: %w", ErrInvalidWeiValueFormat, err)
		}
		return WeiValue{value: val}, nil
	}

	val, ok := new(big.Int).SetString(trimmedStr, 10)
	if !ok || val.Sign() < 0 {
		return WeiValue{}, fmt.Errorf("%w: failed to parse '%s'", ErrInvalidWeiValueFormat, trimmedStr)
	}
	return WeiValue{value: val}, nil
}

// String returns the base-10 representation of the amount.
func (wv WeiValue) String() string {
	if wv.value == nil {
		return "0"
	}
	return wv.value.String()
}

// BigInt returns a copy of the internal *big.Int value.
func (wv WeiValue) BigInt() *big.Int {
	if wv.value == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(wv.value)
}

// Ether returns the amount in ether as an exact rational.
func (wv WeiValue) Ether() *big.Rat {
	return new(big.Rat).SetFrac(wv.BigInt(), weiPerEther)
}

// IsZero checks if the WeiValue represents zero.
func (wv WeiValue) IsZero() bool {
	return wv.value == nil || wv.value.Sign() == 0
}
