// Package errors provides the error taxonomy of the sign-in library.
// Every failure crossing the browser-to-caller boundary is an *AppError
// carrying a machine-readable ErrorCode, so callers branch on codes
// instead of matching message strings.
package errors
