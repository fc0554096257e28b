package numacache

import "errors"

// Sentinel errors returned by Builder.Build, discriminable with errors.Is.
var (
	ErrMissingCapacity = errors.New("numacache: capacity per shard was not set")
	ErrZeroShards      = errors.New("numacache: zero shards requested")
)

// BuilderError wraps a construction-time validation failure. It is
// distinct from any runtime condition: every runtime operation on a
// built Cache returns a value unconditionally, never an error.
type BuilderError struct {
	err error
}

func (e *BuilderError) Error() string { return e.err.Error() }
func (e *BuilderError) Unwrap() error { return e.err }

func newBuilderError(err error) *BuilderError { return &BuilderError{err: err} }
