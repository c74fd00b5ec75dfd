package handler

import "errors"

// ErrNilDependency is returned by Init when router, cfg or db is missing.
var ErrNilDependency = errors.New(ErrNilACDFatalLogMsg)
