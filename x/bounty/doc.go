/*
Package bounty implements the single deposit escrow.

A depositor locks funds for a bounty identified by a caller supplied number.
The contract admin releases the funds to a contributor, either in full or in
parts, or refunds them to the depositor. Once the escrow deadline has passed
anyone can trigger the refund.

Funds in custody are held by an address derived from the bounty identifier
in the cash ledger.
*/
package bounty
