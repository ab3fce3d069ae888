package repositories

import (
	"chat-sync/domain/chat"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Archive records use the protobuf wire format:
//
//	1: id  2: sender  3: receiver  4: type  5: body  6: readers (repeated)  7: created_at (unix nano)
const (
	fieldID protowire.Number = iota + 1
	fieldSender
	fieldReceiver
	fieldType
	fieldBody
	fieldReaders
	fieldCreatedAt
)

func encodeMessage(m chat.Message) []byte {
	var b []byte
	b = appendString(b, fieldID, m.ID)
	b = appendString(b, fieldSender, string(m.Sender))
	b = appendString(b, fieldReceiver, string(m.Receiver))
	b = appendString(b, fieldType, string(m.Type))
	b = appendString(b, fieldBody, m.Body)
	for _, reader := range m.Readers {
		b = protowire.AppendTag(b, fieldReaders, protowire.BytesType)
		b = protowire.AppendString(b, string(reader))
	}
	// An absent field 7 decodes back to the zero time.
	if !m.CreatedAt.IsZero() {
		b = protowire.AppendTag(b, fieldCreatedAt, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.CreatedAt.UnixNano()))
	}
	return b
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func decodeMessage(b []byte) (chat.Message, error) {
	var m chat.Message
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return chat.Message{}, fmt.Errorf("archive record: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case typ == protowire.BytesType && num >= fieldID && num <= fieldReaders:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return chat.Message{}, fmt.Errorf("archive record field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			switch num {
			case fieldID:
				m.ID = v
			case fieldSender:
				m.Sender = chat.UserID(v)
			case fieldReceiver:
				m.Receiver = chat.UserID(v)
			case fieldType:
				m.Type = chat.ChatType(v)
			case fieldBody:
				m.Body = v
			case fieldReaders:
				m.Readers = append(m.Readers, chat.UserID(v))
			}
		case typ == protowire.VarintType && num == fieldCreatedAt:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return chat.Message{}, fmt.Errorf("archive record field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			m.CreatedAt = time.Unix(0, int64(v)).UTC()
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return chat.Message{}, fmt.Errorf("archive record field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return m, nil
}
