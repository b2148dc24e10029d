package notification

import (
	"github.com/kolide/apnskit/pkg/payload"
)

// WebBuilder builds Safari web push notifications. The alert is complete
// from the start, so there is no plain or structured alert choice to make.
type WebBuilder struct {
	alert   payload.WebPushAlert
	urlArgs []string
	sound   *string
	level   *payload.InterruptionLevel
}

// NewWebBuilder returns a builder for alert. urlArgs fill the
// placeholders of the website's url format string and are always sent,
// even when empty.
func NewWebBuilder(alert payload.WebPushAlert, urlArgs []string) WebBuilder {
	args := make([]string, len(urlArgs))
	copy(args, urlArgs)

	return WebBuilder{
		alert:   alert,
		urlArgs: args,
	}
}

// Sound sets the name of the sound to play.
func (b WebBuilder) Sound(name string) WebBuilder {
	b.sound = &name
	return b
}

func (b WebBuilder) InterruptionLevel(level payload.InterruptionLevel) WebBuilder {
	b.level = &level
	return b
}

func (b WebBuilder) ActiveInterruptionLevel() WebBuilder {
	return b.InterruptionLevel(payload.InterruptionLevelActive)
}

func (b WebBuilder) CriticalInterruptionLevel() WebBuilder {
	return b.InterruptionLevel(payload.InterruptionLevelCritical)
}

func (b WebBuilder) PassiveInterruptionLevel() WebBuilder {
	return b.InterruptionLevel(payload.InterruptionLevelPassive)
}

func (b WebBuilder) TimeSensitiveInterruptionLevel() WebBuilder {
	return b.InterruptionLevel(payload.InterruptionLevelTimeSensitive)
}

func (b WebBuilder) Build(deviceToken string, options payload.Options) *payload.Payload {
	urlArgs := b.urlArgs
	if urlArgs == nil {
		urlArgs = []string{}
	}

	aps := payload.APS{
		Alert:             b.alert,
		InterruptionLevel: b.level,
		URLArgs:           &urlArgs,
	}

	if b.sound != nil {
		aps.Sound = payload.SoundName(*b.sound)
	}

	return payload.New(deviceToken, options, aps)
}
