// Package readwise provides a client for the primary Readwise API (v2).
//
// Readwise collects highlights from books, articles, tweets and podcasts.
// This package exposes typed, lazily paginated access to highlights, books,
// book tags, the export bundle and the daily review, plus the write
// operations for creating highlights and managing book tags.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := readwise.NewClient("", os.Getenv("READWISE_TOKEN"), logger,
//		api.WithRateLimit(20, 1),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for book, err := range client.Books(ctx, readwise.BookListOptions{Category: readwise.CategoryArticles}) {
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(book.Title)
//	}
//
// # Pagination
//
// Highlights, books and book tags use page-number pagination. Export uses
// cursor pagination and transparently re-requests a page whose response was
// cut off mid-body. Every listing is a single-use iter.Seq2; stopping the
// range loop early stops further requests.
//
// # Errors
//
// Failures are reported with the error types of package api: *api.AuthError,
// *api.HTTPError, *api.RateLimitError and *api.DecodeError. Invalid write
// parameters are reported as *validation.Error before any request is made.
package readwise
