// Package repository holds the in-memory stores for films and users and the
// two relationship indexes (friendships and likes). Stores own the records;
// the relationship indexes only hold identifiers and never reference a
// record directly. Higher layers such as services translate the sentinel
// values below into domain errors.
package repository

import "errors"

// ErrSelfReference is returned when a relationship would connect a user with
// themselves. Services reject this earlier with a validation error, so
// reaching it indicates a programming error in the caller.
var ErrSelfReference = errors.New("relationship endpoints must differ")
