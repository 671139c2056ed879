// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the google/uuid library to generate Version 7 values, used for
request correlation ids and object-storage keys.

Advantages:

  - Sortable: Naturally ordered by creation time (millisecond precision).
  - Collision-free: uploads with identical file names never overwrite each other.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
//
// When the entropy source fails it falls back to a random v4 value rather
// than panicking on the request path.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
