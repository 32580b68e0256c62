// Package models defines server-side data models persisted in the database.
package models

// Account binds an external (platform) identity to a chosen username and a
// password digest. Accounts are never renamed or deleted.
type Account struct {
	ID             int64
	ExternalID     int64
	UserName       string
	CredentialHash string
}
