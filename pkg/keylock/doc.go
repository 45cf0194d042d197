/*
Package keylock serializes work per key.

It keeps one reference-counted mutex per active key, so unrelated keys never
contend and idle keys are garbage collected. An optional DistributedLocker
extends the critical section across replicas. The ledgers use it to serialize
reserve, commit and cancel per user and currency.
*/
package keylock
