// Package docsync mirrors a user's docs folder into the workspace content tree
// and makes sure every page names a layout.
//
// Sync is re-run on every change during dev mode, so each step is idempotent:
// the copy overwrites, and layout injection never touches a page that already
// declares one.
package docsync
