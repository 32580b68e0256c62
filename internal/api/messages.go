// Package api describes the KeeperService gRPC service: its messages, a
// hand-written service descriptor and client, and the JSON codec the
// messages travel in.
package api

import "time"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LogoutRequest struct{}

type StoreRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type GetRequest struct {
	Key string `json:"key"`
}

type HelpRequest struct{}

type SetDirectMessagesRequest struct {
	Enabled bool `json:"enabled"`
}

type InboxRequest struct{}

// Reply is the public response to a command.
type Reply struct {
	Message string `json:"message"`
}

type StoreReply struct {
	Message string `json:"message"`
	Created bool   `json:"created"`
}

// DirectMessage is a private message pushed over the Inbox stream.
type DirectMessage struct {
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// HelpText lists the commands understood by the service.
const HelpText = `**Data Storage Commands**
` + "`/register <username> <password>`" + ` - Register a new account.
` + "`/login <username> <password>`" + ` - Log in to your account.
` + "`/logout`" + ` - Log out of your account.
` + "`/store <key> <value>`" + ` - Store or update a piece of text data.
` + "`/get <key>`" + ` - Retrieve your stored data. It is sent to your direct messages.
` + "`/dm <on|off>`" + ` - Allow or block direct messages.`
