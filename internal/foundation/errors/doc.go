// Package errors provides the classified error type used across docsflow.
//
// Problems found in documents and configuration files are findings, not
// errors. This package covers the remaining failures: unreadable inputs,
// invalid tool configuration, contract violations by callers and internal
// faults. Each error carries a category, a severity and structured context,
// and the CLI adapter turns the category into a process exit code.
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryFileSystem, "cannot read document").
//		WithContext("file", path).
//		Build()
package errors
