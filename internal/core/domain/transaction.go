package domain

// Transaction is one value transfer of a fetched block. It is never mutated.
type Transaction struct {
	Hash        TransactionHash
	From        Address
	To          Address
	Value       WeiValue
	GasPrice    WeiValue
	BlockNumber BlockNumber
	BlockHash   BlockHash
}

// NewTransaction builds a transaction of block bn/bh.
func NewTransaction(
	hash TransactionHash,
	from, to Address,
	value, gasPrice WeiValue,
	bn BlockNumber,
	bh BlockHash,
) Transaction {
	return Transaction{Hash: hash, From: from, To: to, Value: value, GasPrice: gasPrice, BlockNumber: bn, BlockHash: bh}
}

// Involves reports whether addr is the sender or the receiver.
func (tx Transaction) Involves(addr Address) bool {
	return tx.From.Equals(addr) || tx.To.Equals(addr)
}
