/*
Package ledger serializes writes to the booking book.

Bookings that touch the same slot must be decided one at a time, otherwise two
patients could both see a slot as free and both be confirmed. The Manager keeps
one reference-counted mutex per slot key and, when configured with a
ports.DistributedLocker, also takes a lock shared by every replica.
*/
package ledger
