// Package store defines the Persistence layer's interface as named in the
// external-collaborators list: optional chat-history storage, never
// required by the POC itself.
package store

import "context"

// HistoryTurn is one persisted chat turn.
type HistoryTurn struct {
	Role    string
	Content string
}

// ChatHistoryStore appends and fetches chat history for a session key. A
// nil ChatHistoryStore is valid and means persistence is disabled.
type ChatHistoryStore interface {
	AppendTurn(ctx context.Context, sessionKey string, turn HistoryTurn) error
	FetchHistory(ctx context.Context, sessionKey string) ([]HistoryTurn, error)
	Close() error
}
