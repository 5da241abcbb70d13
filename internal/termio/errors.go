package termio

import "github.com/pkg/errors"

// ErrDeviceInit is raised when the terminal cannot be put into raw mode;
// per §7 this is fatal for the terminal sink (unlike the audio device,
// which merely downgrades).
var ErrDeviceInit = errors.New("termio: failed to initialize terminal device")
