package payload

import "github.com/pkg/errors"

// Alert is the user visible content of a notification. The concrete type
// decides the wire shape: DefaultAlert and WebPushAlert render as objects,
// BodyAlert renders as a bare string. No type tag is ever written.
type Alert interface {
	isAlert()
}

// DefaultAlert is the structured alert dictionary. Every field is
// optional and omitted when unset. The argument lists are pointers so an
// explicitly empty list still renders as [].
type DefaultAlert struct {
	Title        *string   `json:"title,omitempty"`
	Subtitle     *string   `json:"subtitle,omitempty"`
	Body         *string   `json:"body,omitempty"`
	TitleLocKey  *string   `json:"title-loc-key,omitempty"`
	TitleLocArgs *[]string `json:"title-loc-args,omitempty"`
	ActionLocKey *string   `json:"action-loc-key,omitempty"`
	LocKey       *string   `json:"loc-key,omitempty"`
	LocArgs      *[]string `json:"loc-args,omitempty"`
	LaunchImage  *string   `json:"launch-image,omitempty"`
}

// WebPushAlert is the alert used for Safari web push. All three fields are
// required by the service.
type WebPushAlert struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Action string `json:"action"`
}

// ErrIncompleteWebPushAlert is returned by WebPushAlert.Validate.
var ErrIncompleteWebPushAlert = errors.New("web push alert requires title, body and action")

// Validate reports whether all three required fields are set.
func (a WebPushAlert) Validate() error {
	if a.Title == "" || a.Body == "" || a.Action == "" {
		return ErrIncompleteWebPushAlert
	}
	return nil
}

// BodyAlert is an alert consisting of only a message body.
type BodyAlert string

func (DefaultAlert) isAlert() {}
func (WebPushAlert) isAlert() {}
func (BodyAlert) isAlert() {}
