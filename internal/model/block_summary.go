package model

// BlockSummary describes a recent block for the explorer view.
type BlockSummary struct {
	Number       uint64 `json:"number"`
	Hash         string `json:"hash"`
	Timestamp    uint64 `json:"timestamp"`
	Transactions int    `json:"transactions"`
}
