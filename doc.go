/*
Package custody defines the cross-contract interface of the fund custody
(escrow) subsystem, together with the small set of primitives every contract
implementation shares.

Independent contract implementations, such as the single bounty escrow in
x/bounty and the pooled program escrow in x/program, implement the capability
interfaces declared here:

  BountyEscrow   single deposit custody for one identified bounty
  ProgramEscrow  pooled balance custody paying out to many recipients
  Pausable       per operation class emergency halt
  AdminManaged   single admin identity that can hand over its authority
  Versioned      contract version and interface version accessors

A concrete contract implements only the capabilities it needs. All of them
share the EscrowStatus state machine, the error taxonomy of the errors package
and the interface version contract.

We pass context through context.Context between the environment and the
contracts. Block time, logger and chain id are stored in the context using the
WithXYZ and GetXYZ helper pairs. Authentication extensions may add their own
keys to enrich the context with signer data.

State is kept in a KVStore. Contract operations are transactional: when an
operation fails, no write survives (see Atomic).
*/
package custody
