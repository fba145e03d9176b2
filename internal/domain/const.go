package domain

type ctxKey string

// SignerCtxKey carries the key id of a verified HTTP signature when
// the deployment wires a signature verifier.
const SignerCtxKey ctxKey = "signer"
