// Package siteconfig synthesizes the workspace's docs-config.json.
//
// The template ships a default document. The user's own file is deep-merged
// over it, CLI overrides are applied on top, and when the result has no
// sidebar one is derived from the docs folder. The package also writes the
// generated theme stylesheet and adds base/site to the build configuration.
//
// Documents are handled as generic JSON objects so fields this package does
// not know about survive every merge.
package siteconfig
