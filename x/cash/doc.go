/*
Package cash implements the fungible token ledger used by custody contracts.

Each token is identified by an address. Balances are kept per token and
owner. Moving funds into custody is a transfer from the depositor to the
custody address of an escrow, paying out is a transfer in the opposite
direction.
*/
package cash
