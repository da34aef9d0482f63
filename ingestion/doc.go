// Package ingestion provides pipeline orchestration for turning scraped
// quote fragments into stored quotes.
//
// The Pipeline type manages the ingestion workflow for fragments, including:
//   - Classifying fragments as quotes or scraping noise
//   - Resolving authors and sources (get-or-create)
//   - Storing quotes idempotently under content-derived IDs
//   - Full-text indexing asynchronously
//
// Indexing is performed concurrently using a worker pool. Errors during
// async indexing are logged but do not fail the ingestion operation.
//
// The Cleaner type re-runs classification over the stored corpus, rewriting
// quotes whose citation suffix can be stripped and deleting rows that no
// longer classify as quotes.
package ingestion
