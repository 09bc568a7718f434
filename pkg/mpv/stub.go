//go:build !mpv

package mpv

import "github.com/olivierh59500/media-player/pkg/transport"

// Available reports whether the binary was built with libmpv.
const Available = false

// New always fails without libmpv.
func New() (transport.Handle, error) {
	return nil, ErrUnavailable
}
