// Package workspace stages build output next to its final location.
//
// A Stage is a hidden sibling of the output directory (e.g. .site-staging-1a2b3c4d).
// The build writes every page into it and Promote swaps it into place with renames,
// so the output directory always holds either the previous site or the new one.
// Discard removes a stage that was never promoted.
package workspace
