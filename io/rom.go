package io

import (
	"iter"
)

// Rom is a read-only byte source holding a program image.
type Rom struct {
	Data []uint8

	readIndex int
}

var _ Source = (*Rom)(nil)

// Rewind restarts reading at the first byte of the image.
func (rc *Rom) Rewind() {
	rc.readIndex = 0
}

// Receive yields the remaining bytes of the image.
func (rc *Rom) Receive() iter.Seq[uint8] {
	return func(yield func(value uint8) bool) {
		for rc.readIndex < len(rc.Data) {
			value := rc.Data[rc.readIndex]
			rc.readIndex++
			if !yield(value) {
				return
			}
		}
	}
}

// Len returns the size of the image in bytes.
func (rc *Rom) Len() int {
	return len(rc.Data)
}
