// Package reader provides a client for the Readwise Reader API (v3).
//
// Documents are listed with cursor pagination through Documents, which
// returns a lazy iter.Seq2. CreateDocument saves a URL, optionally with its
// HTML, and reports whether the URL had been saved before.
package reader
