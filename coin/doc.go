/*
Package coin implements the custody amount type.

Amounts are arbitrary precision integers limited to the signed 128 bit
range. Every arithmetic operation is checked and returns ErrOverflow instead
of wrapping around. Amounts are persisted as their decimal string
representation.
*/
package coin
