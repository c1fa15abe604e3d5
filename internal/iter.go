// Package internal holds iterator helpers shared by the simulator packages.
package internal

import (
	"iter"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return
				}
			}
		}
	}
}

// IterChunk yields consecutive windows of at most size elements of data,
// keyed by the offset of the window's first element.
func IterChunk[T any](data []T, size int) iter.Seq2[int, []T] {
	return func(yield func(int, []T) bool) {
		if size <= 0 {
			return
		}
		for offset := 0; offset < len(data); offset += size {
			end := min(offset+size, len(data))
			if !yield(offset, data[offset:end]) {
				return
			}
		}
	}
}
