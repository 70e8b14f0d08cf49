// Package errors provides standardized error definitions for the
// collaborative drawing server. All error definitions are centralized here
// to ensure consistency across packages.
package errors
