/*
Package orm provides typed buckets on top of a KVStore.

A ModelBucket stores protobuf encoded models under a bucket prefix:

  <bucket>:<key>

Indexes are stored next to the data, pointing back to the primary key:

  _i.<bucket>_<index>:<len(value)><value><key>

Sequences keep per bucket counters:

  _s.<bucket>:<name>[:<scope>]
*/
package orm
