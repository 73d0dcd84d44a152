// Package linkrewrite rewrites hyperlink targets while markdown is rendered.
//
// A Rewriter holds an ordered list of prefix rules. For every link the first rule whose
// predicate matches decides the output; a link no rule matches is returned unchanged.
// Rewriters are immutable after construction and safe for concurrent use.
//
// Two rule sets are used by the site builder:
//
//   - page rules: repo-root, included-relative
//   - repository rules: repo-root
//
// The Extension type plugs a Rewriter into goldmark as an AST transformer that visits
// every link and image destination of a parsed document.
package linkrewrite
