/*
Package x contains the extensions that custody contracts are built from.

The root package defines how callers are authenticated. Sub-packages provide
the token ledger used to move funds in and out of custody, the admin
authority, pause control and the two reference escrow contracts.
*/
package x
