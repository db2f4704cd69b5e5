// Package client provides the core implementation of the configurable
// HTTP client built on [net/http], shared by metadata resolution and
// the download engine.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithThrottle(4, 2),
//	)
//
// One Client should be shared across a whole sequence of items so the
// connection pool is set up once.
//
// # Resolving Metadata
//
// [Client.Resolve] performs a metadata-only fetch — a GET whose body
// is abandoned once headers arrive — and reports the effective URL,
// derived filename, declared size, and last-modified time:
//
//	res, err := c.Resolve(ctx, "https://example.com/pub/report.pdf")
//
// # Downloading
//
// [Client.Download] streams a resource to disk through a uniquely
// named temp file, renamed into the destination only after a clean
// end of stream:
//
//	result, err := c.Download(ctx, client.Request{
//		URL: "https://example.com/pub/report.pdf",
//		Dir: "/tmp/downloads",
//	})
//
// [Client.DownloadAll] processes a sequence of requests one at a
// time; a per-item failure is recorded and the batch continues.
//
// For lower-level control see the
// [github.com/awalker/snarf/client/resolve] and
// [github.com/awalker/snarf/client/download] packages.
package client
