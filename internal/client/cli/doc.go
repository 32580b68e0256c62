// Package cli provides the interactive DataKeeper command-line client.
//
// It plays the role of the chat platform: every command is sent as the
// configured external identity, replies are printed as they arrive, and a
// background watcher prints private messages pushed over the Inbox stream.
//
// Commands mirror the slash commands of the service:
//
//	/register <username> [password]
//	/login <username> [password]
//	/logout
//	/store <key> <value...>
//	/get <key>
//	/dm <on|off>
//	/help
//	exit | quit
//
// A missing password is read from the terminal without echo.
package cli
