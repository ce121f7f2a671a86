package gram

import "errors"

var (
	// ErrPeerNotFound indicates that no cache table knows the requested
	// identifier. Callers can recover by resolving the peer over the network
	// and re-caching it.
	ErrPeerNotFound = errors.New("gram: peer not found")
)
