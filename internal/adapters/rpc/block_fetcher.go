package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tx_streamer/internal/core/domain"
	"tx_streamer/internal/core/domain/client"
	"tx_streamer/internal/logger"
	"tx_streamer/internal/utils"
)

// Caller performs a JSON-RPC call and returns the raw result.
type Caller interface {
	Call(ctx context.Context, method string, params []any) (json.RawMessage, error)
}

// BlockFetcher implements client.BlockFetcher on top of a Caller.
type BlockFetcher struct {
	caller Caller
	logger logger.AppLogger
}

// Compile-time check to ensure BlockFetcher implements client.BlockFetcher
var _ client.BlockFetcher = (*BlockFetcher)(nil)

// Compile-time check to ensure Client implements Caller
var _ Caller = (*Client)(nil)

// NewBlockFetcher creates a new BlockFetcher.
func NewBlockFetcher(caller Caller, log logger.AppLogger) (*BlockFetcher, error) {
	if caller == nil {
		return nil, errors.New("rpc caller cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &BlockFetcher{
		caller: caller,
		logger: log.Component("block_fetcher"),
	}, nil
}

// GetBlock resolves ref and fetches the block with full transaction objects.
func (f *BlockFetcher) GetBlock(ctx context.Context, ref domain.BlockRef) (*domain.Block, error) {
	number, ok := ref.Number()
	if !ok {
		latest, err := f.GetLatestBlockNumber(ctx)
		if err != nil {
			return nil, err
		}
		number = latest
	}
	return f.GetBlockWithTransactions(ctx, number)
}

// GetLatestBlockNumber fetches the number of the most recent block.
func (f *BlockFetcher) GetLatestBlockNumber(ctx context.Context) (domain.BlockNumber, error) {
	result, err := f.caller.Call(ctx, "eth_blockNumber", nil)
	if err != nil {
		return domain.BlockNumber{}, fmt.Errorf("eth_blockNumber failed: %w", err)
	}

	var resultStr string
	if err := json.Unmarshal(result, &resultStr); err != nil {
		return domain.BlockNumber{}, fmt.Errorf("failed to unmarshal block number result: %w", err)
	}

	blockNumberInt, err := utils.HexToInt64(resultStr)
	if err != nil {
		return domain.BlockNumber{}, fmt.Errorf("failed to parse block number hex '%s': %w", resultStr, err)
	}

	return domain.NewBlockNumber(blockNumberInt)
}

// GetBlockWithTransactions fetches a block by its number and includes its transactions.
func (f *BlockFetcher) GetBlockWithTransactions(
	ctx context.Context,
	blockNumber domain.BlockNumber,
) (*domain.Block, error) {
	blockNumberHex := blockNumber.Hex()

	result, err := f.caller.Call(ctx, "eth_getBlockByNumber", []any{blockNumberHex, true})
	if err != nil {
		return nil, fmt.Errorf("eth_getBlockByNumber %s failed: %w", blockNumberHex, err)
	}

	if isNull(result) {
		return nil, fmt.Errorf("%w: %d", ErrBlockNotFound, blockNumber.Value())
	}

	var rpcBlock Block
	if err := json.Unmarshal(result, &rpcBlock); err != nil {
		return nil, fmt.Errorf("failed to unmarshal block result for block %s: %w", blockNumberHex, err)
	}

	block, err := mapRPCBlockToDomain(&rpcBlock, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to map block %s: %w", blockNumberHex, err)
	}

	f.logger.Debug("Fetched block",
		"block_number", block.Number.Value(),
		"transactions", len(block.Transactions),
		"skipped", len(rpcBlock.Transactions)-len(block.Transactions),
	)
	return block, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
