package api

import "mention-relay/internal/pkg/errs"

var (
	errMissingIdentity = errs.New("authenticated identity missing from context")
	errNotActionable   = errs.New("notification not found or not actionable")
)
