package export

import "github.com/pkg/errors"

// ErrEncode marks a per-frame export failure: per §7 this is logged and the
// frame is dropped, but the pipeline keeps running.
var ErrEncode = errors.New("export: failed to encode frame")
