package chat

import "fmt"

// Identity is the currently open conversation scope.
// For direct messages ChatID is the other party's user id, for rooms it is the room id.
type Identity struct {
	ChatID   UserID
	ChatType ChatType
}

func NewIdentity(chatID string, chatType ChatType) Identity {
	return Identity{ChatID: UserID(chatID), ChatType: chatType}
}

// IsZero reports whether no conversation is open.
func (i Identity) IsZero() bool {
	return i.ChatID == ""
}

func (i Identity) String() string {
	if i.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%s:%s", i.ChatType, i.ChatID)
}
