//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"bytes"
	"chat-sync/domain/chat"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// IMessageRepository is the local transcript archive.
type IMessageRepository interface {
	StoreMessages(identity chat.Identity, messages []chat.Message) error
	GetMessages(identity chat.Identity, cursor *string) ([]chat.Message, *string, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

func prefix(identity chat.Identity) string {
	return fmt.Sprintf("msg:%s:%s:", identity.ChatType, identity.ChatID)
}

// key is formatted as "msg:{type}:{chat_id}:{timestamp_padded}:{message_id}" to
// ensure chronological sorting using 19-digit zero padding (lexicographical order).
// Timestamps before the epoch, including the zero time, are clamped to 0.
func key(identity chat.Identity, message chat.Message) []byte {
	ts := int64(0)
	if !message.CreatedAt.IsZero() && message.CreatedAt.UnixNano() > 0 {
		ts = message.CreatedAt.UnixNano()
	}
	return []byte(fmt.Sprintf("%s%019d:%s", prefix(identity), ts, message.ID))
}

// idKey "id:{type}:{chat_id}:{message_id}" points at the message's current record key.
// The same message may come back with another timestamp (a live event stamped
// locally, then the server's copy from history); the index keeps one record per id.
func idKey(identity chat.Identity, messageID string) []byte {
	return []byte(fmt.Sprintf("id:%s:%s:%s", identity.ChatType, identity.ChatID, messageID))
}

// StoreMessages upserts messages of one conversation in a single transaction.
func (m MessageRepository) StoreMessages(identity chat.Identity, messages []chat.Message) error {
	if len(messages) == 0 {
		return nil
	}
	return m.db.Update(func(txn *badger.Txn) error {
		for _, message := range messages {
			recordKey := key(identity, message)
			indexKey := idKey(identity, message.ID)

			item, err := txn.Get(indexKey)
			switch {
			case errors.Is(err, badger.ErrKeyNotFound):
			case err != nil:
				return err
			default:
				previous, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				if !bytes.Equal(previous, recordKey) {
					m.log.Debug("Message moved in archive", "message_id", message.ID)
					if err := txn.Delete(previous); err != nil {
						return err
					}
				}
			}

			if err := txn.Set(recordKey, encodeMessage(message)); err != nil {
				return err
			}
			if err := txn.Set(indexKey, recordKey); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetMessages retrieves a page of a conversation's archive, newest first, using a reverse prefix scan.
// Thanks to the padded timestamp in the key, messages are naturally sorted by time.
// The returned cursor resumes right after the last message of the page.
func (m MessageRepository) GetMessages(identity chat.Identity, cursor *string) ([]chat.Message, *string, error) {
	var values [][]byte
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := prefix(identity)
		prefixBytes := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Start after the newest possible timestamp and walk back
			seekKey = append([]byte(prefixStr), []byte("9999999999999999999;")...)
		default:
			seekKey = append([]byte(prefixStr), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefixBytes) && string(it.Item().Key()[len(prefixStr):]) == *cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefixBytes); it.Next() {
			if m.limitMessages != nil && len(values) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefixStr):])
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			values = append(values, value)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]chat.Message, 0, len(values))
	for _, value := range values {
		message, err := decodeMessage(value)
		if err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	return messages, &lastKey, nil
}
