// Package util provides small helpers shared by the db.KVDB engines:
// seed generation, FNV-1a string hashing, shard selection and byte copying.
package util
