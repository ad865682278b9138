package domain

import (
	"fmt"
	"math/big"
)

// FilterKind enumerates the supported transaction filters.
type FilterKind int

const (
	filterInvalid FilterKind = iota
	// FilterKindAll passes every transaction.
	FilterKindAll
	// FilterKindAllWithAddress passes transactions where the address is sender or receiver.
	FilterKindAllWithAddress
	// FilterKindSender passes transactions sent by the address.
	FilterKindSender
	// FilterKindReceiver passes transactions received by the address.
	FilterKindReceiver
	// FilterKindValueRange passes transactions whose USD value falls into a bucket.
	FilterKindValueRange
)

func (k FilterKind) String() string {
	switch k {
	case FilterKindAll:
		return "all"
	case FilterKindAllWithAddress:
		return "all_with_address"
	case FilterKindSender:
		return "sender"
	case FilterKindReceiver:
		return "receiver"
	case FilterKindValueRange:
		return "value_range"
	default:
		return "invalid"
	}
}

// ValueBucket is a labelled half-open USD interval [Min, Max). A nil Max is unbounded.
type ValueBucket struct {
	Label string
	Min   *big.Rat
	Max   *big.Rat
}

// Contains reports whether usd lies in [Min, Max).
func (b ValueBucket) Contains(usd *big.Rat) bool {
	if usd.Cmp(b.Min) < 0 {
		return false
	}
	return b.Max == nil || usd.Cmp(b.Max) < 0
}

func usd(n int64) *big.Rat { return new(big.Rat).SetInt64(n) }

var valueBuckets = []ValueBucket{
	{Label: "0-100", Min: usd(0), Max: usd(100)},
	{Label: "100-500", Min: usd(100), Max: usd(500)},
	{Label: "500-2000", Min: usd(500), Max: usd(2000)},
	{Label: "2000-5000", Min: usd(2000), Max: usd(5000)},
	{Label: ">5000", Min: usd(5000)},
}

// ValueBucketLabels lists the accepted range labels in ascending order.
func ValueBucketLabels() []string {
	labels := make([]string, 0, len(valueBuckets))
	for _, b := range valueBuckets {
		labels = append(labels, b.Label)
	}
	return labels
}

// LookupValueBucket returns the bucket for a label or ErrInvalidRange.
func LookupValueBucket(label string) (ValueBucket, error) {
	for _, b := range valueBuckets {
		if b.Label == label {
			return b, nil
		}
	}
	return ValueBucket{}, fmt.Errorf("%w: '%s'", ErrInvalidRange, label)
}

// Filter is the single filter of a subscription. The zero value is invalid.
type Filter struct {
	kind    FilterKind
	address Address
	bucket  ValueBucket
}

// NewAllFilter passes everything.
func NewAllFilter() Filter {
	return Filter{kind: FilterKindAll}
}

// NewAllWithAddressFilter passes transactions touching addr on either side.
func NewAllWithAddressFilter(addr Address) (Filter, error) {
	return newAddressFilter(FilterKindAllWithAddress, addr)
}

// NewSenderFilter passes transactions sent by addr.
func NewSenderFilter(addr Address) (Filter, error) {
	return newAddressFilter(FilterKindSender, addr)
}

// NewReceiverFilter passes transactions received by addr.
func NewReceiverFilter(addr Address) (Filter, error) {
	return newAddressFilter(FilterKindReceiver, addr)
}

func newAddressFilter(kind FilterKind, addr Address) (Filter, error) {
	if addr.IsZero() {
		return Filter{}, fmt.Errorf("%w: %s filter requires an address", ErrInvalidFilter, kind)
	}
	return Filter{kind: kind, address: addr}, nil
}

// NewValueRangeFilter passes transactions within the labelled USD bucket.
func NewValueRangeFilter(label string) (Filter, error) {
	b, err := LookupValueBucket(label)
	if err != nil {
		return Filter{}, err
	}
	return Filter{kind: FilterKindValueRange, bucket: b}, nil
}

// Kind returns the filter variant.
func (f Filter) Kind() FilterKind { return f.kind }

// Address returns the filter address for address based variants.
func (f Filter) Address() Address { return f.address }

// Bucket returns the value bucket for FilterKindValueRange.
func (f Filter) Bucket() ValueBucket { return f.bucket }

// IsValid reports whether the filter was built by one of the constructors.
func (f Filter) IsValid() bool { return f.kind != filterInvalid }

// String implements fmt.Stringer.
func (f Filter) String() string {
	switch f.kind {
	case FilterKindAllWithAddress, FilterKindSender, FilterKindReceiver:
		return fmt.Sprintf("%s(%s)", f.kind, f.address)
	case FilterKindValueRange:
		return fmt.Sprintf("%s(%s)", f.kind, f.bucket.Label)
	default:
		return f.kind.String()
	}
}
