package audio

import "github.com/pkg/errors"

// ErrAudioInit is the downgrade-not-fatal error kind from §7: callers that
// see it should disable audio and continue rather than aborting the pipeline.
var ErrAudioInit = errors.New("audio: failed to initialize output device")
