// Package api provides the request layer shared by the Readwise API clients.
//
// A Client is bound to one base URL and one token. It sends authenticated JSON
// requests, absorbs HTTP 429 responses by waiting for the server-supplied
// Retry-After duration, and turns every other error status into a typed error.
//
// # Pagination
//
// Readwise endpoints page in one of two ways, selected per call with a
// Strategy:
//
//   - PageNumber: page and page_size query parameters, stopping once a page
//     has no "next" link or the body is a bare list.
//   - Cursor: an opaque pageCursor, stopping once "nextPageCursor" is absent,
//     repeats the previous cursor, or the body is a bare list. Interrupted
//     responses are re-requested after a short delay.
//
// Pages returns a lazy iter.Seq2 of raw pages; Items flattens it into typed
// records:
//
//	pages := client.Pages(ctx, api.PageNumber, "/books/", query)
//	for book, err := range api.Items("/books/", pages, decodeBook) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(book.Title)
//	}
//
// # Error Handling
//
//   - *AuthError: 401/403, errors.Is(err, ErrUnauthorized) holds
//   - *HTTPError: any other non-2xx status
//   - *RateLimitError: only when WithMaxRetries is set and exhausted
//   - *TransientNetworkError: a truncated response body
//   - *DecodeError: a body that does not match the expected shape
package api
