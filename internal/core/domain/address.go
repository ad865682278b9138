// Package domain defines the core domain models and business logic entities.
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrInvalidAddressFormat indicates that the provided string is not a valid Ethereum address format.
var ErrInvalidAddressFormat = errors.New("invalid ethereum address format")

const addressLength = 20

// Address is a 0x-prefixed, lowercase 20-byte account address.
// The zero value is the missing receiver of a contract creation.
type Address struct {
	value string
}

// NewAddress parses a hex address in any letter case.
func NewAddress(addr string) (Address, error) {
	clean := strings.ToLower(strings.TrimSpace(addr))
	if !strings.HasPrefix(clean, "0x") {
		return Address{}, fmt.Errorf("%w: %s", ErrInvalidAddressFormat, addr)
	}
	raw, err := hexutil.Decode(clean)
	if err != nil || len(raw) != addressLength {
		return Address{}, fmt.Errorf("%w: %s", ErrInvalidAddressFormat, addr)
	}
	return Address{value: clean}, nil
}

// NewOptionalAddress parses a receiver field that may be null or empty.
func NewOptionalAddress(addr *string) (Address, error) {
	if addr == nil || strings.TrimSpace(*addr) == "" {
		return Address{}, nil
	}
	return NewAddress(*addr)
}

func (a Address) String() string {
	return a.value
}

// Ptr returns nil for the zero address.
func (a Address) Ptr() *string {
	if a.IsZero() {
		return nil
	}
	v := a.value
	return &v
}

// IsZero reports whether the address is absent.
func (a Address) IsZero() bool {
	return a.value == ""
}

// Equals compares two present addresses. An absent address matches nothing.
func (a Address) Equals(other Address) bool {
	return !a.IsZero() && a.value == other.value
}
