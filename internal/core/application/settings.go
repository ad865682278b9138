package application

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"tx_streamer/internal/config"
)

// StreamSettings holds what every dispatcher needs besides its request.
type StreamSettings struct {
	EmitInterval time.Duration
	USDPerEther  *big.Rat
}

// NewStreamSettings converts the stream section of the configuration.
func NewStreamSettings(cfg config.StreamConfig) (StreamSettings, error) {
	if cfg.EmitIntervalMs < 0 {
		return StreamSettings{}, errors.New("emit interval cannot be negative")
	}
	rate, err := cfg.USDPerEther()
	if err != nil {
		return StreamSettings{}, fmt.Errorf("stream settings: %w", err)
	}
	if rate.Sign() <= 0 {
		return StreamSettings{}, errors.New("stream settings: exchange rate must be positive")
	}
	return StreamSettings{
		EmitInterval: cfg.EmitInterval(),
		USDPerEther:  rate,
	}, nil
}
