package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

const (
	badgerMsgPrefix = "msg:"
	badgerIDPrefix  = "id:"
)

// BadgerStore keeps messages in an embedded Badger database. The record
// lives under a time-ordered key so a forward prefix scan yields messages
// in creation order; a second entry maps the message id back to that key
// for deletion.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// NewBadger opens (or creates) the database at path.
func NewBadger(path string, logger zerolog.Logger) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}
	return &BadgerStore{
		db:     db,
		logger: logger.With().Str("component", "badger-store").Logger(),
	}, nil
}

// badgerMsgKey orders messages lexicographically by creation time. The
// 19-digit zero padding keeps nanosecond timestamps sortable as strings and
// the id disambiguates same-nanosecond writes.
func badgerMsgKey(at time.Time, id string) []byte {
	return fmt.Appendf(nil, "%s%019d:%s", badgerMsgPrefix, at.UnixNano(), id)
}

// Append writes the record and its id index entry in one transaction.
func (s *BadgerStore) Append(_ context.Context, username, text string) (Message, error) {
	msg, now := newMessage(username, text)

	data, err := json.Marshal(msg)
	if err != nil {
		return Message{}, fmt.Errorf("encode message: %w", err)
	}

	key := badgerMsgKey(now, msg.ID)
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set([]byte(badgerIDPrefix+msg.ID), key)
	})
	if err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

// ListRecent scans forward over the time-ordered keys, so the result is in
// ascending creation order.
func (s *BadgerStore) ListRecent(_ context.Context, limit int) ([]Message, error) {
	messages := make([]Message, 0, limit)
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(badgerMsgPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if len(messages) == limit {
				break
			}
			err := it.Item().Value(func(value []byte) error {
				var msg Message
				if err := json.Unmarshal(value, &msg); err != nil {
					s.logger.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("skipping undecodable message")
					return nil
				}
				messages = append(messages, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// DeleteByID resolves the id index to the primary key and removes both
// entries. A missing index entry means the message was never stored or is
// already gone, which is not an error.
func (s *BadgerStore) DeleteByID(_ context.Context, id string) (bool, error) {
	idKey := []byte(badgerIDPrefix + id)
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(idKey)
		if err != nil {
			return err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(idKey)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete message: %w", err)
	}
	return true, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
