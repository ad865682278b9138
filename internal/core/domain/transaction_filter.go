package domain

import (
	"fmt"
	"math/big"
)

// FilterAll returns a copy of txs.
func FilterAll(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	return out
}

// FilterAllWithAddress keeps transactions where addr is the sender or the receiver.
func FilterAllWithAddress(txs []Transaction, addr Address) []Transaction {
	return keep(txs, func(tx Transaction) bool {
		return tx.Involves(addr)
	})
}

// FilterBySender keeps transactions sent by addr.
func FilterBySender(txs []Transaction, addr Address) []Transaction {
	return keep(txs, func(tx Transaction) bool {
		return tx.From.Equals(addr)
	})
}

// FilterByReceiver keeps transactions received by addr.
// Contract creations have no receiver and never match.
func FilterByReceiver(txs []Transaction, addr Address) []Transaction {
	return keep(txs, func(tx Transaction) bool {
		return tx.To.Equals(addr)
	})
}

// FilterByValueRange keeps transactions whose value, converted to USD at usdPerEther,
// falls into the bucket named by label.
func FilterByValueRange(txs []Transaction, label string, usdPerEther *big.Rat) ([]Transaction, error) {
	b, err := LookupValueBucket(label)
	if err != nil {
		return nil, err
	}
	return filterByBucket(txs, b, usdPerEther), nil
}

func filterByBucket(txs []Transaction, b ValueBucket, usdPerEther *big.Rat) []Transaction {
	return keep(txs, func(tx Transaction) bool {
		return b.Contains(ValueInUSD(tx.Value, usdPerEther))
	})
}

// ValueInUSD converts a wei amount to USD exactly.
func ValueInUSD(v WeiValue, usdPerEther *big.Rat) *big.Rat {
	return new(big.Rat).Mul(v.Ether(), usdPerEther)
}

// Apply runs the filter over txs. The input slice is never modified and order is preserved.
func (f Filter) Apply(txs []Transaction, usdPerEther *big.Rat) ([]Transaction, error) {
	switch f.kind {
	case FilterKindAll:
		return FilterAll(txs), nil
	case FilterKindAllWithAddress:
		return FilterAllWithAddress(txs, f.address), nil
	case FilterKindSender:
		return FilterBySender(txs, f.address), nil
	case FilterKindReceiver:
		return FilterByReceiver(txs, f.address), nil
	case FilterKindValueRange:
		if usdPerEther == nil {
			return nil, fmt.Errorf("%w: exchange rate not set", ErrInvalidFilter)
		}
		return filterByBucket(txs, f.bucket, usdPerEther), nil
	default:
		return nil, fmt.Errorf("%w: zero filter", ErrInvalidFilter)
	}
}

func keep(txs []Transaction, pred func(Transaction) bool) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if pred(tx) {
			out = append(out, tx)
		}
	}
	return out
}
