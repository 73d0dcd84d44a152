// Package errors provides the classified error primitives used across docsite.
//
// Errors carry a category (config, not_found, markdown, build, ...), a severity and
// free-form context. Leaf packages build them through the fluent builder; the CLI and the
// preview server translate them into exit codes and HTTP payloads through adapters.
//
// Example usage:
//
//	err := errors.NotFoundError("included file not found").
//		WithContext("path", resolved).
//		WithCause(fsErr).
//		Build()
package errors
