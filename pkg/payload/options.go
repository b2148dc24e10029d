package payload

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// PushType is the value of the apns-push-type request header.
type PushType string

const (
	PushTypeAlert        PushType = "alert"
	PushTypeBackground   PushType = "background"
	PushTypeLocation     PushType = "location"
	PushTypeVoIP         PushType = "voip"
	PushTypeComplication PushType = "complication"
	PushTypeFileProvider PushType = "fileprovider"
	PushTypeMDM          PushType = "mdm"
	PushTypeLiveActivity PushType = "liveactivity"
	PushTypePushToTalk   PushType = "pushtotalk"
)

var pushTypes = []PushType{
	PushTypeAlert,
	PushTypeBackground,
	PushTypeLocation,
	PushTypeVoIP,
	PushTypeComplication,
	PushTypeFileProvider,
	PushTypeMDM,
	PushTypeLiveActivity,
	PushTypePushToTalk,
}

func ParsePushType(s string) (PushType, error) {
	for _, pt := range pushTypes {
		if string(pt) == s {
			return pt, nil
		}
	}
	return "", errors.Errorf("unknown push type %q", s)
}

func (pt *PushType) UnmarshalText(text []byte) error {
	parsed, err := ParsePushType(string(text))
	if err != nil {
		return err
	}
	*pt = parsed
	return nil
}

// Priority is the value of the apns-priority request header. The zero
// value means the header is not sent and the service default applies.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityNormal Priority = 5
	PriorityHigh   Priority = 10
)

func ParsePriority(s string) (Priority, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing priority %q", s)
	}
	switch p := Priority(n); p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return p, nil
	}
	return 0, errors.Errorf("unsupported priority %d", n)
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	parsed, err := ParsePriority(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Options are the send options that travel next to a payload. They are
// not part of the JSON body; the transport turns them into request
// headers. Empty fields are left out.
type Options struct {
	ID         string   `json:"id,omitempty"`
	PushType   PushType `json:"push-type,omitempty"`
	Expiration *uint64  `json:"expiration,omitempty"`
	Priority   Priority `json:"priority,omitempty"`
	Topic      string   `json:"topic,omitempty"`
	CollapseID string   `json:"collapse-id,omitempty"`
}

// WithGeneratedID returns a copy of the options carrying a freshly
// generated apns-id.
func (o Options) WithGeneratedID() Options {
	o.ID = uuid.New().String()
	return o
}

// Headers returns the options keyed by their APNs header names.
func (o Options) Headers() map[string]string {
	headers := make(map[string]string)

	if o.ID != "" {
		headers["apns-id"] = o.ID
	}
	if o.PushType != "" {
		headers["apns-push-type"] = string(o.PushType)
	}
	if o.Expiration != nil {
		headers["apns-expiration"] = strconv.FormatUint(*o.Expiration, 10)
	}
	if o.Priority != 0 {
		headers["apns-priority"] = strconv.Itoa(int(o.Priority))
	}
	if o.Topic != "" {
		headers["apns-topic"] = o.Topic
	}
	if o.CollapseID != "" {
		headers["apns-collapse-id"] = o.CollapseID
	}

	return headers
}
