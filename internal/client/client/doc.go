// Package client talks to the DataKeeper server on behalf of one external
// identity.
//
// # Overview
//
// The package provides:
//  1. The command surface the CLI drives (see the Client interface).
//  2. A gRPC implementation (see GRPCClient) that signs an identity token for
//     its configured external id and attaches it to every call through
//     interceptors.
//
// # Error Handling
//
// Transport conditions are exposed as sentinel errors matched with errors.Is
// (ErrUnavailable, ErrUnauthorized). Refused commands come back as
// *ReplyError holding the server's user-facing message.
package client
