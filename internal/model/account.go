package model

import "time"

// Account is a registered user of the ledger. The user ID is the opaque,
// stable identity handed to us by the chat transport.
type Account struct {
	UserID       int64
	Contact      string
	DisplayName  string
	RegisteredAt time.Time
}
