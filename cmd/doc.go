// Package cmd implements the command-line interface of dBlog. The CLI is the
// presentation layer of the blog: it loads the dataset from the persistent slot,
// renders it and writes changes back.
//
// The package is organized into several subpackages:
//
//   - posts: list, show, create and update posts, list authors and categories, benchmarks
//   - slot: dump, import, reset and inspect the persistent slot
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set through DBLOG_ prefixed environment variables or a
// .env / .env.local file, e.g. DBLOG_DATA_DIR=/var/lib/dblog.
//
// See dblog -help for a list of all commands.
package cmd
