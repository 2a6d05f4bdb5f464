/*
Package program implements the program escrow.

A program pools funds locked by any number of funders and pays them out to
many recipients, one by one or in atomic batches. Each program has its own
admin who authorizes payouts. The admin of the first registered program
becomes the contract admin and controls the pause flags.

Operations other than registration act on the program selected by the
context, see WithProgramID.
*/
package program
