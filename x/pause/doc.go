/*
Package pause implements the independent halting of custody operations.

Three flags control whether locking funds, releasing funds and refunding
funds is allowed. Only the contract admin may change the flags. All flags are
clear by default.
*/
package pause
