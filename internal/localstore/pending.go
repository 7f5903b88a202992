package localstore

import (
	"encoding/binary"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fekuna/omnipos-terminal/internal/model"
)

// OpKind tags a buffered offline mutation awaiting replay.
type OpKind string

const (
	OpProductDelete OpKind = "product.delete"
	OpStockSet      OpKind = "stock.set"
	OpSale          OpKind = "sale"
)

// PendingOp is one entry of the outbox: an intent recorded while the remote
// store was unreachable (or rejected a write), replayed in arrival order by
// the reconnect sweep.
type PendingOp struct {
	ID        string                  `json:"id"`
	Kind      OpKind                  `json:"kind"`
	ProductID string                  `json:"product_id,omitempty"`
	Stock     int                     `json:"stock,omitempty"`
	Tx        *model.Transaction      `json:"tx,omitempty"`
	Items     []model.TransactionItem `json:"items,omitempty"`
	QueuedAt  time.Time               `json:"queued_at"`
}

// PendingEntry pairs an outbox op with its bucket key, so a replayed op can
// be deleted individually without disturbing ops enqueued since the read.
type PendingEntry struct {
	Key []byte
	Op  PendingOp
}

// EnqueuePending appends op to the outbox. Ordering is the bucket's
// monotonically increasing sequence.
func (s *Store) EnqueuePending(op PendingOp) error {
	data, err := json.Marshal(op)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPending)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), data)
	})
}

// PendingEntries returns the outbox in arrival order, keys included.
func (s *Store) PendingEntries() ([]PendingEntry, error) {
	var entries []PendingEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPending).ForEach(func(k, v []byte) error {
			var op PendingOp
			if err := json.Unmarshal(v, &op); err != nil {
				return err
			}
			key := make([]byte, len(k))
			copy(key, k)
			entries = append(entries, PendingEntry{Key: key, Op: op})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// PendingOps returns the outbox in arrival order.
func (s *Store) PendingOps() ([]PendingOp, error) {
	entries, err := s.PendingEntries()
	if err != nil {
		return nil, err
	}
	ops := make([]PendingOp, 0, len(entries))
	for _, e := range entries {
		ops = append(ops, e.Op)
	}
	return ops, nil
}

// DeletePending removes exactly the given keys in one update transaction.
// Ops enqueued after the keys were read are untouched.
func (s *Store) DeletePending(keys ...[]byte) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPending)
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// RewritePending stores op at an existing key, keeping its outbox position.
func (s *Store) RewritePending(key []byte, op PendingOp) error {
	data, err := json.Marshal(op)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPending).Put(key, data)
	})
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
