package notification

import (
	"github.com/kolide/apnskit/pkg/payload"
)

// DefaultBuilder builds notifications using the full aps vocabulary:
// structured alerts, badges, critical sounds and Live Activity updates.
//
// DefaultBuilder is a value. Every method returns an updated copy and
// leaves the receiver alone, so calls chain:
//
//	p := notification.NewDefaultBuilder().
//		Title("Hi").
//		Body("there").
//		Badge(1).
//		Build(token, payload.Options{})
type DefaultBuilder struct {
	alert            payload.DefaultAlert
	structuredAlert  bool
	badge            *uint32
	sound            *string
	critical         bool
	volume           *float64
	threadID         *string
	category         *string
	mutableContent   bool
	contentAvailable bool
	level            *payload.InterruptionLevel
	dismissalDate    *uint64

	timestamp        *uint64
	event            *string
	contentState     any
	attributesType   *string
	attributes       any
	inputPushChannel *string
	inputPushToken   bool
}

// NewDefaultBuilder returns a builder with nothing set.
func NewDefaultBuilder() DefaultBuilder {
	return DefaultBuilder{}
}

// Title sets the alert title.
func (b DefaultBuilder) Title(title string) DefaultBuilder {
	b.alert.Title = &title
	b.structuredAlert = true
	return b
}

// Subtitle sets the alert subtitle.
func (b DefaultBuilder) Subtitle(subtitle string) DefaultBuilder {
	b.alert.Subtitle = &subtitle
	b.structuredAlert = true
	return b
}

// Body sets the alert body. If no other alert field is set the alert is
// sent as a plain string.
func (b DefaultBuilder) Body(body string) DefaultBuilder {
	b.alert.Body = &body
	return b
}

// TitleLocKey sets the localization key for the title.
func (b DefaultBuilder) TitleLocKey(key string) DefaultBuilder {
	b.alert.TitleLocKey = &key
	b.structuredAlert = true
	return b
}

// TitleLocArgs sets the arguments substituted into the title-loc-key string.
func (b DefaultBuilder) TitleLocArgs(args ...string) DefaultBuilder {
	titleArgs := copyStrings(args)
	b.alert.TitleLocArgs = &titleArgs
	b.structuredAlert = true
	return b
}

// ActionLocKey sets the localization key for the action button title.
func (b DefaultBuilder) ActionLocKey(key string) DefaultBuilder {
	b.alert.ActionLocKey = &key
	b.structuredAlert = true
	return b
}

// LocKey sets the localization key for the body.
func (b DefaultBuilder) LocKey(key string) DefaultBuilder {
	b.alert.LocKey = &key
	b.structuredAlert = true
	return b
}

// LocArgs sets the arguments substituted into the loc-key string.
func (b DefaultBuilder) LocArgs(args ...string) DefaultBuilder {
	locArgs := copyStrings(args)
	b.alert.LocArgs = &locArgs
	b.structuredAlert = true
	return b
}

// LaunchImage sets the launch image shown when the notification opens the app.
func (b DefaultBuilder) LaunchImage(image string) DefaultBuilder {
	b.alert.LaunchImage = &image
	b.structuredAlert = true
	return b
}

// Badge sets the number shown on the app icon. Zero clears the badge.
func (b DefaultBuilder) Badge(badge uint32) DefaultBuilder {
	b.badge = &badge
	return b
}

// Sound sets the name of the sound file to play.
func (b DefaultBuilder) Sound(name string) DefaultBuilder {
	b.sound = &name
	return b
}

// Critical marks the notification as a critical alert played at volume,
// which may be nil. Volume can only be set here. Critical(false, ...)
// clears both the flag and any volume set earlier; the volume argument is
// ignored in that case. Conflicting input is normalized rather than
// rejected, and Build never fails.
func (b DefaultBuilder) Critical(enabled bool, volume *float64) DefaultBuilder {
	if !enabled {
		b.critical = false
		b.volume = nil
		return b
	}

	b.critical = true
	if volume != nil {
		v := *volume
		volume = &v
	}
	b.volume = volume
	return b
}

// ThreadID sets the identifier used to group related notifications.
func (b DefaultBuilder) ThreadID(id string) DefaultBuilder {
	b.threadID = &id
	return b
}

// Category sets the notification category, which selects the actions
// shown with it.
func (b DefaultBuilder) Category(category string) DefaultBuilder {
	b.category = &category
	return b
}

// MutableContent lets a notification service extension modify the
// notification before it is shown.
func (b DefaultBuilder) MutableContent() DefaultBuilder {
	b.mutableContent = true
	return b
}

// ContentAvailable marks the notification as a background update.
func (b DefaultBuilder) ContentAvailable() DefaultBuilder {
	b.contentAvailable = true
	return b
}

func (b DefaultBuilder) InterruptionLevel(level payload.InterruptionLevel) DefaultBuilder {
	b.level = &level
	return b
}

func (b DefaultBuilder) ActiveInterruptionLevel() DefaultBuilder {
	return b.InterruptionLevel(payload.InterruptionLevelActive)
}

func (b DefaultBuilder) CriticalInterruptionLevel() DefaultBuilder {
	return b.InterruptionLevel(payload.InterruptionLevelCritical)
}

func (b DefaultBuilder) PassiveInterruptionLevel() DefaultBuilder {
	return b.InterruptionLevel(payload.InterruptionLevelPassive)
}

func (b DefaultBuilder) TimeSensitiveInterruptionLevel() DefaultBuilder {
	return b.InterruptionLevel(payload.InterruptionLevelTimeSensitive)
}

// DismissalDate sets when the system removes the notification, in
// seconds since the epoch.
func (b DefaultBuilder) DismissalDate(epochSeconds uint64) DefaultBuilder {
	b.dismissalDate = &epochSeconds
	return b
}

// Timestamp sets the Live Activity update time, in seconds since the epoch.
func (b DefaultBuilder) Timestamp(epochSeconds uint64) DefaultBuilder {
	b.timestamp = &epochSeconds
	return b
}

// Event sets the Live Activity event, such as "start", "update" or "end".
func (b DefaultBuilder) Event(event string) DefaultBuilder {
	b.event = &event
	return b
}

// ContentState sets the dynamic Live Activity state. The value is
// serialized when the payload is rendered and must not be modified
// afterwards.
func (b DefaultBuilder) ContentState(state any) DefaultBuilder {
	b.contentState = state
	return b
}

func (b DefaultBuilder) AttributesType(attributesType string) DefaultBuilder {
	b.attributesType = &attributesType
	return b
}

// Attributes sets the static Live Activity attributes used when starting
// an activity. Like ContentState it is serialized at render time.
func (b DefaultBuilder) Attributes(attributes any) DefaultBuilder {
	b.attributes = attributes
	return b
}

// InputPushChannel sets the broadcast channel id for channel based Live
// Activity updates.
func (b DefaultBuilder) InputPushChannel(channelID string) DefaultBuilder {
	b.inputPushChannel = &channelID
	return b
}

// InputPushToken asks the device for a new Live Activity push token.
func (b DefaultBuilder) InputPushToken() DefaultBuilder {
	b.inputPushToken = true
	return b
}

// Build finalizes the notification.
func (b DefaultBuilder) Build(deviceToken string, options payload.Options) *payload.Payload {
	aps := payload.APS{
		Alert:             b.resolveAlert(),
		Badge:             b.badge,
		Sound:             b.resolveSound(),
		ThreadID:          b.threadID,
		Category:          b.category,
		MutableContent:    payload.NewFlag(b.mutableContent),
		InterruptionLevel: b.level,
		DismissalDate:     b.dismissalDate,
		Timestamp:         b.timestamp,
		Event:             b.event,
		ContentState:      b.contentState,
		AttributesType:    b.attributesType,
		Attributes:        b.attributes,
		InputPushChannel:  b.inputPushChannel,
	}

	if b.contentAvailable {
		aps.ContentAvailable = payload.NewFlag(true)
	}
	if b.inputPushToken {
		aps.InputPushToken = payload.NewFlag(true)
	}

	return payload.New(deviceToken, options, aps)
}

// resolveAlert picks the alert shape. Any field besides the body forces
// the structured dictionary; a lone body is sent as a string.
func (b DefaultBuilder) resolveAlert() payload.Alert {
	switch {
	case b.structuredAlert:
		return b.alert
	case b.alert.Body != nil:
		return payload.BodyAlert(*b.alert.Body)
	default:
		return nil
	}
}

// resolveSound picks the sound shape. A critical alert always uses the
// dictionary, even when only a name was given.
func (b DefaultBuilder) resolveSound() payload.Sound {
	switch {
	case b.critical:
		return payload.CriticalSound{
			Critical: true,
			Name:     b.sound,
			Volume:   b.volume,
		}
	case b.sound != nil:
		return payload.SoundName(*b.sound)
	default:
		return nil
	}
}

// copyStrings never returns nil, so an empty list renders as [].
func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
