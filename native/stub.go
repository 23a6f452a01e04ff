//go:build !cgo || windows

package native

import (
	"github.com/wippyai/wstring"
	"github.com/wippyai/wstring/errors"
)

// Runtime is unavailable in this build.
type Runtime struct {
	wstring.Runtime
}

// New reports that std::wstring is not reachable from this build.
func New(opts ...Option) (*Runtime, error) {
	_ = buildOptions(opts)
	return nil, errors.Unsupported(errors.PhaseLoad, "native wide strings need cgo and a 32-bit wchar_t")
}

// Stats returns zero counters.
func (r *Runtime) Stats() Stats {
	return Stats{}
}
