// Package filter evaluates expr-lang expressions over lazily fetched
// Readwise and Reader items.
package filter

import (
	"fmt"
	"iter"
)

// Apply yields the items of seq that f matches. A nil filter passes every
// item through. Evaluation failures end the sequence with an
// *EvaluationError.
func Apply[T any](f *Filter, seq iter.Seq2[T, error], env func(T) Env) iter.Seq2[T, error] {
	if f == nil {
		return seq
	}

	return func(yield func(T, error) bool) {
		var zero T
		for item, err := range seq {
			if err != nil {
				yield(zero, err)
				return
			}

			e := env(item)
			ok, err := f.Match(e)
			if err != nil {
				yield(zero, &EvaluationError{
					Expression: f.expression,
					Item:       fmt.Sprintf("item %v", e["ID"]),
					Err:        err,
				})
				return
			}
			if !ok {
				continue
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Limit yields at most n items of seq. Stopping early stops the underlying
// traversal. A non-positive n means no limit.
func Limit[T any](seq iter.Seq2[T, error], n int) iter.Seq2[T, error] {
	if n <= 0 {
		return seq
	}

	return func(yield func(T, error) bool) {
		count := 0
		for item, err := range seq {
			if !yield(item, err) || err != nil {
				return
			}
			count++
			if count >= n {
				return
			}
		}
	}
}
