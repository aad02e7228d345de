// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bucket

import (
	"strconv"
	"sync/atomic"
)

const instancePrefix = "Instance"

// Sequence hands out private topic names. Names from one Sequence are unique
// and increase monotonically: Instance1, Instance2, ...
type Sequence struct {
	n atomic.Uint64
}

// NewSequence returns a Sequence starting at Instance1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next topic name.
func (s *Sequence) Next() string {
	return instancePrefix + strconv.FormatUint(s.n.Add(1), 10)
}
