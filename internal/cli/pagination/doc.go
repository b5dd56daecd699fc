// Package pagination sorts and slices scan results for the CLI.
//
// Results are ordered by one row column (--sort field[:order]) and then cut
// down with --offset and --limit. The status line always counts every
// matching row, not only the printed page.
package pagination
