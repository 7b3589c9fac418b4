package eventstream

import "errors"

// ErrNilStreamEvent indicates a nil chat stream event payload was provided to a publisher.
var ErrNilStreamEvent = errors.New("nil chat stream event")
