/*
Package admin implements the single admin authority of a custody contract.

The admin is set once during initialization and can later be replaced by the
current admin only. Each contract instance keeps its admin under its own
namespace.
*/
package admin
