package application

import (
	"fmt"
	"strings"

	"tx_streamer/internal/core/domain"
	"tx_streamer/pkg/txstream"
)

// Subscription filter types accepted in the "type" field.
const (
	filterTypeAll      = "all"
	filterTypeSender   = "sender"
	filterTypeReceiver = "receiver"
)

// ParseSubscribeRequest validates a subscribe request and resolves it to exactly one block and one filter.
// It never touches the network.
func ParseSubscribeRequest(req txstream.SubscribeRequest) (domain.BlockRef, domain.Filter, error) {
	ref, err := domain.ParseBlockRef(string(req.BlockID))
	if err != nil {
		return domain.BlockRef{}, domain.Filter{}, err
	}

	filter, err := resolveFilter(req)
	if err != nil {
		return domain.BlockRef{}, domain.Filter{}, err
	}
	return ref, filter, nil
}

// resolveFilter applies the most restrictive reading of the request: a value range stands alone,
// otherwise the type decides and address-based types need an address.
func resolveFilter(req txstream.SubscribeRequest) (domain.Filter, error) {
	typ := strings.ToLower(strings.TrimSpace(req.Type))
	rawAddr := strings.TrimSpace(req.Address)
	rng := strings.TrimSpace(req.Range)

	if rng != "" {
		if typ != "" || rawAddr != "" {
			return domain.Filter{}, fmt.Errorf("%w: range cannot be combined with type or address", domain.ErrInvalidFilter)
		}
		return domain.NewValueRangeFilter(rng)
	}

	var addr domain.Address
	if rawAddr != "" {
		a, err := domain.NewAddress(rawAddr)
		if err != nil {
			return domain.Filter{}, fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)
		}
		addr = a
	}

	switch typ {
	case "":
		return domain.Filter{}, fmt.Errorf("%w: type or range is required", domain.ErrInvalidFilter)
	case filterTypeAll:
		if addr.IsZero() {
			return domain.NewAllFilter(), nil
		}
		return domain.NewAllWithAddressFilter(addr)
	case filterTypeSender:
		return domain.NewSenderFilter(addr)
	case filterTypeReceiver:
		return domain.NewReceiverFilter(addr)
	default:
		return domain.Filter{}, fmt.Errorf("%w: unknown type '%s'", domain.ErrInvalidFilter, req.Type)
	}
}
