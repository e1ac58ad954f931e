// Package spend orchestrates the full payment lifecycle: fetch unspent
// outputs, select coins, build and sign the transaction, reserve the
// consumed outputs, then broadcast and settle the reservation. A failed or
// abandoned attempt releases its outputs back to the spendable pool.
package spend

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	logging "github.com/ipfs/go-log/v2"

	"github.com/bchwalletorg/libbchwallet-go/network"
	"github.com/bchwalletorg/libbchwallet-go/store"
	"github.com/bchwalletorg/libbchwallet-go/tx"
	"github.com/bchwalletorg/libbchwallet-go/wallet"
)

var log = logging.Logger("spend")

// Spender ties the wallet key, chain access, coin selection, and the spend
// ledger together.
type Spender struct {
	chain    network.ChainService
	ledger   *store.Ledger
	key      *wallet.Key
	selector tx.Selector
	fee      tx.FeeEstimator
	watched  bool
}

// NewSpender creates a Spender for the given key. A feeRate of 0 uses
// tx.DefaultFeeRate.
func NewSpender(chain network.ChainService, ledger *store.Ledger, key *wallet.Key, feeRate uint64) (*Spender, error) {
	if chain == nil || ledger == nil || key == nil {
		return nil, ErrNilParam
	}
	fee := tx.NewFeeEstimator(feeRate)
	return &Spender{
		chain:    chain,
		ledger:   ledger,
		key:      key,
		selector: tx.NewSelector(fee),
		fee:      fee,
	}, nil
}

// Address returns the wallet's CashAddr receive address.
func (s *Spender) Address() (string, error) {
	return s.key.CashAddr()
}

// Balance returns the spendable balance in satoshis: confirmed unspent
// outputs minus anything reserved by pending drafts.
func (s *Spender) Balance(ctx context.Context) (uint64, error) {
	set, err := s.availableOutputs(ctx)
	if err != nil {
		return 0, err
	}
	return set.Total(), nil
}

// Unspent returns the count and total of the currently spendable outputs.
func (s *Spender) Unspent(ctx context.Context) (count int, total uint64, err error) {
	set, err := s.availableOutputs(ctx)
	if err != nil {
		return 0, 0, err
	}
	return set.Len(), set.Total(), nil
}

// ensureWatched registers the wallet address as watch-only with the node.
// Without the import, listunspent never reports outputs for an address the
// node's wallet has not seen. The node treats a repeated import as a no-op,
// so this runs once per process and retries on the next call if it fails.
func (s *Spender) ensureWatched(ctx context.Context, addr string) error {
	if s.watched {
		return nil
	}
	err := network.WithRetry(ctx, "importaddress", func() error {
		return s.chain.ImportAddress(ctx, addr)
	})
	if err != nil {
		return fmt.Errorf("import watch address: %w", err)
	}
	s.watched = true
	return nil
}

// availableOutputs fetches the address's unspent outputs and filters out
// those held or spent according to the ledger.
func (s *Spender) availableOutputs(ctx context.Context) (*tx.UTXOSet, error) {
	addr, err := s.key.CashAddr()
	if err != nil {
		return nil, err
	}
	if err := s.ensureWatched(ctx, addr); err != nil {
		return nil, err
	}

	var raw []*network.UTXO
	err = network.WithRetry(ctx, "listunspent", func() error {
		var lerr error
		raw, lerr = s.chain.ListUnspent(ctx, addr)
		return lerr
	})
	if err != nil {
		return nil, err
	}

	unavailable, err := s.ledger.Unavailable()
	if err != nil {
		return nil, err
	}

	var utxos []*tx.UTXO
	for _, r := range raw {
		u, err := toTxUTXO(r, s.key)
		if err != nil {
			return nil, err
		}
		if unavailable[u.Outpoint()] {
			continue
		}
		utxos = append(utxos, u)
	}
	return tx.NewUTXOSet(utxos), nil
}

// toTxUTXO converts a node-reported output into the builder's form: txid
// hex to internal byte order, script hex to bytes, signing key attached.
func toTxUTXO(r *network.UTXO, key *wallet.Key) (*tx.UTXO, error) {
	hash, err := chainhash.NewHashFromHex(r.TxID)
	if err != nil {
		return nil, fmt.Errorf("%w: txid %q: %v", network.ErrInvalidResponse, r.TxID, err)
	}
	scriptBytes, err := hex.DecodeString(r.ScriptPubKey)
	if err != nil {
		return nil, fmt.Errorf("%w: script for %s:%d: %v", network.ErrInvalidResponse, r.TxID, r.Vout, err)
	}
	return &tx.UTXO{
		TxID:         hash.CloneBytes(),
		Vout:         r.Vout,
		Amount:       r.Amount,
		ScriptPubKey: scriptBytes,
		Address:      r.Address,
		PrivateKey:   key.PrivateKey(),
	}, nil
}

// Draft is a fully built and signed transaction whose inputs are reserved
// but not yet broadcast. Submit broadcasts it and settles the reservation;
// Abandon releases the inputs without broadcasting.
type Draft struct {
	Destination string
	Amount      uint64 // satoshis to the recipient, 0 for data-only
	Fee         uint64
	Change      uint64
	PayloadLen  int
	TxID        string // display hex

	spender   *Spender
	signed    *tx.SignedTx
	outpoints []string
	submitted bool
	abandoned bool
}

// PrepareSend builds a payment draft to dest for amount satoshis and
// reserves the selected outputs.
func (s *Spender) PrepareSend(ctx context.Context, dest string, amount uint64) (*Draft, error) {
	if err := tx.ValidateAddressForNetwork(dest, s.key.Network().CashAddrPrefix); err != nil {
		return nil, err
	}

	set, err := s.availableOutputs(ctx)
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, ErrNoSpendableOutputs
	}

	sel, err := s.selector.Select(set, amount, 1, 0)
	if err != nil {
		return nil, err
	}

	return s.finishDraft(sel, []tx.Intent{tx.PayTo(dest, amount)}, dest, amount, 0)
}

// PrepareSendMax builds a draft that sweeps the entire spendable balance to
// dest, with the fee taken out of the swept amount.
func (s *Spender) PrepareSendMax(ctx context.Context, dest string) (*Draft, error) {
	if err := tx.ValidateAddressForNetwork(dest, s.key.Network().CashAddrPrefix); err != nil {
		return nil, err
	}

	set, err := s.availableOutputs(ctx)
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, ErrNoSpendableOutputs
	}

	sel, spendable, err := s.selector.SelectAll(set, 1, 0)
	if err != nil {
		return nil, err
	}

	return s.finishDraft(sel, []tx.Intent{tx.PayTo(dest, spendable)}, dest, spendable, 0)
}

// PrepareData builds a draft carrying payload in an OP_RETURN output, paying
// only the fee.
func (s *Spender) PrepareData(ctx context.Context, payload []byte) (*Draft, error) {
	set, err := s.availableOutputs(ctx)
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, ErrNoSpendableOutputs
	}

	sel, err := s.selector.SelectForFee(set, len(payload))
	if err != nil {
		return nil, err
	}

	return s.finishDraft(sel, []tx.Intent{tx.DataCarrier(payload)}, "", 0, len(payload))
}

// finishDraft builds and signs the transaction from the selection, then
// reserves the consumed outputs.
func (s *Spender) finishDraft(sel *tx.Selection, intents []tx.Intent, dest string, amount uint64, payloadLen int) (*Draft, error) {
	changeAddr, err := s.key.CashAddr()
	if err != nil {
		return nil, err
	}

	unsigned, err := tx.Build(sel, intents, changeAddr)
	if err != nil {
		return nil, err
	}
	signed, err := tx.Sign(unsigned)
	if err != nil {
		return nil, err
	}

	outpoints := make([]string, len(sel.UTXOs))
	for i, u := range sel.UTXOs {
		outpoints[i] = u.Outpoint()
	}
	if err := s.ledger.Reserve(outpoints); err != nil {
		return nil, err
	}

	hash, err := chainhash.NewHash(signed.TxID)
	if err != nil {
		_ = s.ledger.Release(outpoints)
		return nil, fmt.Errorf("%w: txid: %v", tx.ErrSigningFailed, err)
	}

	log.Debugw("draft prepared", "txid", hash.String(), "inputs", len(outpoints),
		"fee", sel.Fee, "change", sel.Change)

	return &Draft{
		Destination: dest,
		Amount:      amount,
		Fee:         sel.Fee,
		Change:      sel.Change,
		PayloadLen:  payloadLen,
		TxID:        hash.String(),
		spender:     s,
		signed:      signed,
		outpoints:   outpoints,
	}, nil
}

// Submit broadcasts the draft. On acceptance the consumed outputs become
// permanently spent and the transaction is recorded in history. On
// rejection the outputs are released so a corrected attempt can reuse them.
// Transient connection failures are retried with backoff before giving up.
func (d *Draft) Submit(ctx context.Context) (string, error) {
	if d.submitted {
		return "", ErrAlreadySubmitted
	}
	if d.abandoned {
		return "", ErrAbandoned
	}

	var txid string
	err := network.WithRetry(ctx, "broadcast", func() error {
		var berr error
		txid, berr = d.spender.chain.BroadcastTx(ctx, d.signed.Hex)
		return berr
	})
	if err != nil {
		if rerr := d.spender.ledger.Release(d.outpoints); rerr != nil {
			log.Errorw("release after failed broadcast", "txid", d.TxID, "err", rerr)
		}
		d.abandoned = true
		return "", err
	}

	d.submitted = true
	if err := d.spender.ledger.ConfirmSpent(d.outpoints, txid); err != nil {
		return txid, fmt.Errorf("spend: broadcast accepted but ledger update failed: %w", err)
	}

	rec := &store.TxRecord{
		TxID:      txid,
		Recipient: d.Destination,
		Amount:    d.Amount,
		Fee:       d.Fee,
		Data:      d.PayloadLen > 0,
		SentAt:    time.Now().UTC(),
	}
	if err := d.spender.ledger.AppendHistory(rec); err != nil {
		log.Errorw("append history", "txid", txid, "err", err)
	}

	log.Infow("transaction broadcast", "txid", txid, "amount", d.Amount, "fee", d.Fee)
	return txid, nil
}

// Abandon releases the draft's reserved outputs without broadcasting.
func (d *Draft) Abandon() error {
	if d.submitted {
		return ErrAlreadySubmitted
	}
	if d.abandoned {
		return nil
	}
	d.abandoned = true
	return d.spender.ledger.Release(d.outpoints)
}

// History returns the wallet's most recent sent transactions, newest first.
func (s *Spender) History(limit int) ([]*store.TxRecord, error) {
	return s.ledger.History(limit)
}

// TxDetails fetches the confirmation status of a transaction from the node.
func (s *Spender) TxDetails(ctx context.Context, txid string) (*network.TxStatus, error) {
	var status *network.TxStatus
	err := network.WithRetry(ctx, "txstatus", func() error {
		var serr error
		status, serr = s.chain.GetTxStatus(ctx, txid)
		return serr
	})
	return status, err
}
