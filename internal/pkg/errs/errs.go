package errs

import (
	cr "github.com/cockroachdb/errors"
)

// Thin wrappers over cockroachdb/errors so the rest of the codebase never
// imports it directly.

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

// Mark attaches a sentinel so errors.Is(err, markErr) holds while the
// original cause is preserved for logging.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}
