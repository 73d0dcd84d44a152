// Package site discovers documentation pages, renders them through the markdown
// pipeline and writes the static site with its page data.
package site
