package errors

import "fmt"

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrHistoryFetch      = fmt.Errorf("history fetch failed")
	ErrStaleResponse     = fmt.Errorf("stale history response discarded")
	ErrMalformedEvent    = fmt.Errorf("malformed live event")
	ErrNoConversation    = fmt.Errorf("no conversation is open")
	ErrUnknownChatType   = fmt.Errorf("unknown chat type")
	ErrSocketClosed      = fmt.Errorf("socket closed")
	ErrEmptyQuestion     = fmt.Errorf("question is empty")
	ErrEmptyAnswer       = fmt.Errorf("assistant returned no answer")
	ErrMissingUserID     = fmt.Errorf("no user id in access token")
	ErrUnknownCommand    = fmt.Errorf("unknown command")
	ErrAssistantDisabled = fmt.Errorf("assistant is not configured")
)
