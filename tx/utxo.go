// Package tx implements the wallet's transaction construction core:
// unspent output tracking, size-proportional fee estimation, deterministic
// coin selection, and building/signing of payment and data-carrier
// transactions.
package tx

import (
	"encoding/hex"
	"fmt"
	"sort"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// UTXO represents an unspent transaction output spendable by the wallet.
// A UTXO is immutable once observed; it leaves the set only through the
// spend lifecycle (reserved on selection, spent on confirmed broadcast).
type UTXO struct {
	TxID         []byte         `json:"txid"`          // 32 bytes
	Vout         uint32         `json:"vout"`
	Amount       uint64         `json:"amount"`        // satoshis
	ScriptPubKey []byte         `json:"script_pubkey"` // locking script bytes
	Address      string         `json:"address"`       // owning address
	PrivateKey   *ec.PrivateKey `json:"-"`             // signing key (not serialized)
}

// Outpoint returns the canonical "txid:vout" identifier for this output.
// The txid hex follows the stored byte order, so outpoints are stable
// across sessions.
func (u *UTXO) Outpoint() string {
	return fmt.Sprintf("%s:%d", hex.EncodeToString(u.TxID), u.Vout)
}

// UTXOSet is a read-only snapshot of the spendable outputs known for an
// address. An empty set means zero spendable funds, not an error.
type UTXOSet struct {
	utxos []*UTXO
}

// NewUTXOSet creates a snapshot over the given outputs. The slice is copied;
// later mutations of the caller's slice do not affect the set.
func NewUTXOSet(utxos []*UTXO) *UTXOSet {
	cp := make([]*UTXO, len(utxos))
	copy(cp, utxos)
	return &UTXOSet{utxos: cp}
}

// List returns the outputs in observation order.
func (s *UTXOSet) List() []*UTXO {
	cp := make([]*UTXO, len(s.utxos))
	copy(cp, s.utxos)
	return cp
}

// Len returns the number of outputs in the set.
func (s *UTXOSet) Len() int {
	return len(s.utxos)
}

// Total returns the sum of all output amounts in satoshis.
func (s *UTXOSet) Total() uint64 {
	var sum uint64
	for _, u := range s.utxos {
		sum += u.Amount
	}
	return sum
}

// SortedByAmountDesc returns the outputs ordered largest-first. Ties break on
// outpoint so selection order is fully deterministic.
func (s *UTXOSet) SortedByAmountDesc() []*UTXO {
	sorted := s.List()
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Amount != sorted[j].Amount {
			return sorted[i].Amount > sorted[j].Amount
		}
		return sorted[i].Outpoint() < sorted[j].Outpoint()
	})
	return sorted
}
