package common

// IdentityTokenHeaderName is the gRPC metadata key carrying the signed
// external identity of the caller.
const IdentityTokenHeaderName = "identity_token"
