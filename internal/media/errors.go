package media

import "github.com/pkg/errors"

// Sentinel error kinds per the error-handling design: InputOpen and
// NoVideoStream are fatal and bubble up to the caller; callers compare with
// errors.Is after unwrapping a pkg/errors-wrapped cause.
var (
	ErrInputOpen     = errors.New("media: failed to open or parse input")
	ErrNoVideoStream = errors.New("media: input has no video stream")
)
