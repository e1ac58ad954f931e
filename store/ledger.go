package store

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.etcd.io/bbolt"
)

// ReservationTTL bounds how long a reservation may outlive the process that
// took it. A crash between reserving and broadcasting (or abandoning) leaves
// the hold behind; reservations older than this are swept on open so the
// outputs return to the spendable pool.
const ReservationTTL = time.Hour

var (
	bucketReserved = []byte("reserved")
	bucketSpent    = []byte("spent")
	bucketHistory  = []byte("history")
)

// Ledger tracks the spend state of wallet outputs across transaction
// attempts. Outputs selected for a pending transaction are reserved so
// concurrent sends cannot double-spend them; a broadcast confirms the
// reservation into the spent set, and a failed or abandoned attempt
// releases it. The ledger also records a local history of sent
// transactions.
type Ledger struct {
	db     *bbolt.DB
	closed atomic.Bool
}

// reservation is the stored record for a held output.
type reservation struct {
	Outpoint   string
	ReservedAt time.Time
}

// TxRecord describes a transaction the wallet sent.
type TxRecord struct {
	TxID      string
	Recipient string
	Amount    uint64
	Fee       uint64
	Data      bool
	SentAt    time.Time
}

// OpenLedger opens or creates the ledger database at dbPath. The parent
// directory is created if it does not exist.
func OpenLedger(dbPath string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketReserved, bucketSpent, bucketHistory} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}

	l := &Ledger{db: db}
	if _, err := l.ReleaseStale(ReservationTTL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: sweep stale reservations: %w", err)
	}
	return l, nil
}

// Close closes the underlying database. Any further ledger operation
// returns ErrClosed.
func (l *Ledger) Close() error {
	l.closed.Store(true)
	return l.db.Close()
}

// ReleaseStale removes every reservation older than maxAge and reports how
// many were released. Records that fail to decode are treated as stale.
func (l *Ledger) ReleaseStale(maxAge time.Duration) (int, error) {
	if l.closed.Load() {
		return 0, ErrClosed
	}

	cutoff := time.Now().UTC().Add(-maxAge)
	var released int
	err := l.db.Update(func(tx *bbolt.Tx) error {
		rb := tx.Bucket(bucketReserved)
		var stale [][]byte
		c := rb.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var res reservation
			if err := decodeGob(v, &res); err != nil || res.ReservedAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
		}
		for _, k := range stale {
			if err := rb.Delete(k); err != nil {
				return fmt.Errorf("delete stale reservation: %w", err)
			}
		}
		released = len(stale)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}

// Reserve marks the given outpoints as held by a pending transaction. The
// operation is atomic: if any outpoint is already reserved or spent, no
// outpoint is reserved and ErrAlreadyReserved is returned.
func (l *Ledger) Reserve(outpoints []string) error {
	if l.closed.Load() {
		return ErrClosed
	}
	if len(outpoints) == 0 {
		return fmt.Errorf("%w: outpoints", ErrNilParam)
	}

	return l.db.Update(func(tx *bbolt.Tx) error {
		rb := tx.Bucket(bucketReserved)
		sb := tx.Bucket(bucketSpent)

		for _, op := range outpoints {
			if rb.Get([]byte(op)) != nil || sb.Get([]byte(op)) != nil {
				return fmt.Errorf("%w: %s", ErrAlreadyReserved, op)
			}
		}

		for _, op := range outpoints {
			data, err := encodeGob(&reservation{Outpoint: op, ReservedAt: time.Now().UTC()})
			if err != nil {
				return fmt.Errorf("encode reservation: %w", err)
			}
			if err := rb.Put([]byte(op), data); err != nil {
				return fmt.Errorf("put reservation: %w", err)
			}
		}
		return nil
	})
}

// Release removes the reservations for the given outpoints, returning them
// to the spendable pool. The operation is atomic: if any outpoint is not
// reserved, ErrNotReserved is returned and nothing is released.
func (l *Ledger) Release(outpoints []string) error {
	if l.closed.Load() {
		return ErrClosed
	}
	if len(outpoints) == 0 {
		return fmt.Errorf("%w: outpoints", ErrNilParam)
	}

	return l.db.Update(func(tx *bbolt.Tx) error {
		rb := tx.Bucket(bucketReserved)
		for _, op := range outpoints {
			if rb.Get([]byte(op)) == nil {
				return fmt.Errorf("%w: %s", ErrNotReserved, op)
			}
			if err := rb.Delete([]byte(op)); err != nil {
				return fmt.Errorf("delete reservation: %w", err)
			}
		}
		return nil
	})
}

// ConfirmSpent converts the reservations for the given outpoints into
// permanent spent markers, keyed to the transaction that consumed them.
// Confirming an outpoint that is not reserved returns ErrNotReserved.
func (l *Ledger) ConfirmSpent(outpoints []string, txid string) error {
	if l.closed.Load() {
		return ErrClosed
	}
	if len(outpoints) == 0 {
		return fmt.Errorf("%w: outpoints", ErrNilParam)
	}
	if txid == "" {
		return fmt.Errorf("%w: txid", ErrNilParam)
	}

	return l.db.Update(func(tx *bbolt.Tx) error {
		rb := tx.Bucket(bucketReserved)
		sb := tx.Bucket(bucketSpent)

		for _, op := range outpoints {
			if rb.Get([]byte(op)) == nil {
				return fmt.Errorf("%w: %s", ErrNotReserved, op)
			}
		}

		for _, op := range outpoints {
			if err := rb.Delete([]byte(op)); err != nil {
				return fmt.Errorf("delete reservation: %w", err)
			}
			if err := sb.Put([]byte(op), []byte(txid)); err != nil {
				return fmt.Errorf("put spent marker: %w", err)
			}
		}
		return nil
	})
}

// IsReserved reports whether the outpoint is currently held by a pending
// transaction.
func (l *Ledger) IsReserved(outpoint string) (bool, error) {
	if l.closed.Load() {
		return false, ErrClosed
	}
	var held bool
	err := l.db.View(func(tx *bbolt.Tx) error {
		held = tx.Bucket(bucketReserved).Get([]byte(outpoint)) != nil
		return nil
	})
	return held, err
}

// IsSpent reports whether the outpoint was consumed by a broadcast
// transaction, returning that transaction's id.
func (l *Ledger) IsSpent(outpoint string) (bool, string, error) {
	if l.closed.Load() {
		return false, "", ErrClosed
	}
	var txid string
	err := l.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketSpent).Get([]byte(outpoint)); v != nil {
			txid = string(v)
		}
		return nil
	})
	return txid != "", txid, err
}

// Unavailable returns every outpoint that cannot be selected for a new
// transaction: reserved plus spent.
func (l *Ledger) Unavailable() (map[string]bool, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}
	out := make(map[string]bool)
	err := l.db.View(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketReserved, bucketSpent} {
			c := tx.Bucket(name).Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				out[string(k)] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AppendHistory records a sent transaction.
func (l *Ledger) AppendHistory(rec *TxRecord) error {
	if l.closed.Load() {
		return ErrClosed
	}
	if rec == nil {
		return fmt.Errorf("%w: record", ErrNilParam)
	}

	return l.db.Update(func(tx *bbolt.Tx) error {
		hb := tx.Bucket(bucketHistory)
		seq, err := hb.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		data, err := encodeGob(rec)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		return hb.Put(seqKey(seq), data)
	})
}

// History returns the most recent sent transactions, newest first. A limit
// of 0 returns everything.
func (l *Ledger) History(limit int) ([]*TxRecord, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}
	var records []*TxRecord
	err := l.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketHistory).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(records) >= limit {
				break
			}
			var rec TxRecord
			if err := decodeGob(v, &rec); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			records = append(records, &rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// seqKey encodes a sequence number as an 8-byte big-endian key so that
// cursor order matches insertion order.
func seqKey(n uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, n)
	return k
}

func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
