package application

import (
	"tx_streamer/internal/core/domain"
	"tx_streamer/pkg/txstream"
)

// mapDomainToTransactionPayload converts an internal domain Transaction to the public event payload.
func mapDomainToTransactionPayload(domainTx domain.Transaction) txstream.TransactionPayload {
	return txstream.TransactionPayload{
		SenderAddress:   domainTx.From.String(),
		ReceiverAddress: domainTx.To.Ptr(),
		BlockNumber:     domainTx.BlockNumber.Value(),
		BlockHash:       domainTx.BlockHash.String(),
		TransactionHash: domainTx.Hash.String(),
		GasPriceInWei:   domainTx.GasPrice.BigInt(),
		ValueInWei:      domainTx.Value.BigInt(),
	}
}
