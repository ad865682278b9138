// Package utils provides common utility functions.
package utils

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrEmptyHex is returned when a quantity string has no digits.
var ErrEmptyHex = errors.New("empty hex string")

// HexToInt64 converts a JSON-RPC quantity (e.g., "0x1a") to int64.
// Leading zeros are tolerated, as in HexToBigInt.
func HexToInt64(hexStr string) (int64, error) {
	cleaned := strings.ToLower(strings.TrimSpace(hexStr))
	if cleaned == "" || cleaned == "0x" {
		return 0, ErrEmptyHex
	}
	v, err := hexutil.DecodeUint64(cleaned)
	if errors.Is(err, hexutil.ErrLeadingZero) {
		v, err = strconv.ParseUint(strings.TrimPrefix(cleaned, "0x"), 16, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("decode quantity '%s': %w", hexStr, err)
	}
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("quantity '%s' overflows int64", hexStr)
	}
	return int64(v), nil
}

// HexToBigInt converts a hex quantity to *big.Int.
// Leading zeros are tolerated even though the JSON-RPC encoding forbids them.
func HexToBigInt(hexStr string) (*big.Int, error) {
	cleaned := strings.ToLower(strings.TrimSpace(hexStr))
	if cleaned == "" || cleaned == "0x" {
		return nil, ErrEmptyHex
	}
	v, err := hexutil.DecodeBig(cleaned)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, hexutil.ErrLeadingZero) {
		return nil, fmt.Errorf("decode quantity '%s': %w", hexStr, err)
	}
	v, ok := new(big.Int).SetString(strings.TrimPrefix(cleaned, "0x"), 16)
	if !ok {
		return nil, fmt.Errorf("decode quantity '%s': invalid hex", hexStr)
	}
	return v, nil
}

// Int64ToHex encodes a non-negative number as a JSON-RPC quantity.
func Int64ToHex(n int64) string {
	if n < 0 {
		n = 0
	}
	return hexutil.EncodeUint64(uint64(n))
}
