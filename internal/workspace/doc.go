// Package workspace owns the single generated project directory.
//
// The workspace lives at a fixed path (default <tmp>/.lito) and holds one
// project at a time. Scaffold destroys whatever a previous run left behind and
// lays down a fresh copy of the template; later stages mutate that copy in
// place. Two processes sharing the same path will corrupt each other.
package workspace
