/*
Package app provides the execution environment of custody contracts.

Env owns the versioned store and executes one transaction at a time. Every
transaction runs inside a savepoint that is written only when the
transaction succeeds. Signatures attached to a transaction are verified
before the contract code runs and the verified signers are exposed through
sigs.Authenticate.

Contracts must be deployed before use. Deployment checks that the contract
provides the custody interface version required by the caller.
*/
package app
