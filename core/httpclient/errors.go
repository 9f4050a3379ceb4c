package httpclient

import "errors"

// ErrNoTokenSource is returned when a transport is constructed without
// a token source.
var ErrNoTokenSource = errors.New("httpclient: token source is required")
