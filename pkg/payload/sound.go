package payload

import (
	"github.com/pkg/errors"
)

// Sound is the sound played on delivery. It is either a CriticalSound,
// rendered as an object, or a SoundName, rendered as a bare string.
type Sound interface {
	isSound()
}

// CriticalSound is the sound dictionary used for critical alerts.
type CriticalSound struct {
	Critical Flag     `json:"critical,omitempty"`
	Name     *string  `json:"name,omitempty"`
	Volume   *float64 `json:"volume,omitempty"`
}

// SoundName names a sound file in the app bundle.
type SoundName string

func (CriticalSound) isSound() {}
func (SoundName) isSound() {}

// Flag is a protocol boolean. The service expects 0 and 1 rather than JSON
// booleans.
type Flag bool

// NewFlag returns a pointer to a Flag, for use in optional APS fields.
func NewFlag(b bool) *Flag {
	f := Flag(b)
	return &f
}

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "0":
		*f = false
	case "1":
		*f = true
	default:
		return errors.Errorf("invalid flag value %s, expected zero or one", data)
	}
	return nil
}
