package rpc

import (
	"fmt"
	"strings"

	"tx_streamer/internal/core/domain"
	"tx_streamer/internal/logger"
	"tx_streamer/internal/utils"
)

// mapRPCBlockToDomain converts the RPC DTO for a block to the domain model.
// Transactions that fail to map are skipped with a warning; a bad header fails the whole block.
func mapRPCBlockToDomain(rpcBlock *Block, log logger.AppLogger) (*domain.Block, error) {
	num, err := utils.HexToInt64(rpcBlock.Number)
	if err != nil {
		return nil, fmt.Errorf("invalid block number hex '%s': %w", rpcBlock.Number, err)
	}
	domainBlockNum, err := domain.NewBlockNumber(num)
	if err != nil {
		return nil, fmt.Errorf("failed creating domain block number: %w", err)
	}

	domainBlockHash, err := domain.NewBlockHash(rpcBlock.Hash)
	if err != nil {
		return nil, fmt.Errorf("failed creating domain block hash: %w", err)
	}

	domainTxs := make([]domain.Transaction, 0, len(rpcBlock.Transactions))
	for i, rpcTx := range rpcBlock.Transactions {
		domainTx, err := mapRPCTransactionToDomain(&rpcTx, domainBlockNum, domainBlockHash)
		if err != nil {
			log.Warn("Skipping malformed transaction",
				"block_number", num,
				"index", i,
				"tx_hash", rpcTx.Hash,
				"error", err,
			)
			continue
		}
		domainTxs = append(domainTxs, *domainTx)
	}

	domainBlock := domain.NewBlock(domainBlockNum, domainBlockHash, domainTxs)
	return &domainBlock, nil
}

// mapRPCTransactionToDomain converts the RPC DTO for a transaction to the domain model.
func mapRPCTransactionToDomain(
	rpcTx *Transaction,
	blockNum domain.BlockNumber,
	blockHash domain.BlockHash,
) (*domain.Transaction, error) {
	hash, err := domain.NewTransactionHash(rpcTx.Hash)
	if err != nil {
		return nil, fmt.Errorf("invalid tx hash '%s': %w", rpcTx.Hash, err)
	}

	from, err := domain.NewAddress(rpcTx.From)
	if err != nil {
		return nil, fmt.Errorf("invalid tx from address '%s': %w", rpcTx.From, err)
	}

	to, err := domain.NewOptionalAddress(rpcTx.To)
	if err != nil {
		return nil, fmt.Errorf("invalid tx to address: %w", err)
	}

	value, err := domain.NewWeiValue(rpcTx.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid tx value '%s': %w", rpcTx.Value, err)
	}

	// Some nodes omit gasPrice on typed transactions.
	var gasPrice domain.WeiValue
	if strings.TrimSpace(rpcTx.GasPrice) != "" {
		gasPrice, err = domain.NewWeiValue(rpcTx.GasPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid tx gas price '%s': %w", rpcTx.GasPrice, err)
		}
	}

	domainTx := domain.NewTransaction(hash, from, to, value, gasPrice, blockNum, blockHash)
	return &domainTx, nil
}
