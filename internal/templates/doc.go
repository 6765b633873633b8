// Package templates resolves template identifiers to local directories.
//
// An identifier is a registry name (`default`), a GitHub reference
// (`github:owner/repo#ref` or `owner/repo#ref`), or a path to a local
// directory. GitHub templates are shallow-cloned into a cache directory and
// recorded in a small SQLite index with the time they were fetched.
package templates
