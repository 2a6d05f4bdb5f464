/*
Package crypto provides the ed25519 keys used to sign custody requests.

A public key is represented as a Condition of the "sigs" extension. Its
address is the identity used by the authenticators of the x/sigs package.
*/
package crypto
