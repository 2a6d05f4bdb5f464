/*
Package sigs authenticates custody requests signed with ed25519 keys.

Every signature carries a sequence number that must match the number of
requests the key has signed so far. This protects against replays. Verified
signers are stored in the context and exposed through the Authenticate
authenticator.
*/
package sigs
