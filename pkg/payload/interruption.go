package payload

import (
	"github.com/pkg/errors"
)

// InterruptionLevel declares how intrusively the system presents a
// notification.
type InterruptionLevel string

const (
	// InterruptionLevelActive presents the notification immediately, lights
	// up the screen and can play a sound.
	InterruptionLevelActive InterruptionLevel = "active"
	// InterruptionLevelCritical presents the notification immediately and
	// bypasses the mute switch.
	InterruptionLevelCritical InterruptionLevel = "critical"
	// InterruptionLevelPassive adds the notification to the notification
	// list without lighting up the screen or playing a sound.
	InterruptionLevelPassive InterruptionLevel = "passive"
	// InterruptionLevelTimeSensitive breaks through system notification
	// controls such as Focus.
	InterruptionLevelTimeSensitive InterruptionLevel = "time-sensitive"
)

var interruptionLevels = []InterruptionLevel{
	InterruptionLevelActive,
	InterruptionLevelCritical,
	InterruptionLevelPassive,
	InterruptionLevelTimeSensitive,
}

// ParseInterruptionLevel converts the wire name of an interruption level
// into an InterruptionLevel.
func ParseInterruptionLevel(s string) (InterruptionLevel, error) {
	for _, l := range interruptionLevels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", errors.Errorf("unknown interruption level %q", s)
}

func (l InterruptionLevel) String() string {
	return string(l)
}

func (l InterruptionLevel) MarshalText() ([]byte, error) {
	if _, err := ParseInterruptionLevel(string(l)); err != nil {
		return nil, err
	}
	return []byte(l), nil
}

func (l *InterruptionLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseInterruptionLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
