// Package preview serves a built site locally and rebuilds it when the docs tree changes.
package preview
