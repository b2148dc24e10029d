// Package payload models the JSON body of an APNs push request: the
// protocol defined aps dictionary plus any app specific custom data.
package payload

import (
	"bytes"
	"encoding/json"
	"sort"
)

// APS is the protocol defined notification dictionary. Unset fields are
// left out of the rendered JSON rather than written as null. Field order
// here is the wire order.
type APS struct {
	Alert             Alert              `json:"alert,omitempty"`
	Badge             *uint32            `json:"badge,omitempty"`
	Sound             Sound              `json:"sound,omitempty"`
	ThreadID          *string            `json:"thread-id,omitempty"`
	ContentAvailable  *Flag              `json:"content-available,omitempty"`
	Category          *string            `json:"category,omitempty"`
	MutableContent    *Flag              `json:"mutable-content,omitempty"`
	InterruptionLevel *InterruptionLevel `json:"interruption-level,omitempty"`
	DismissalDate     *uint64            `json:"dismissal-date,omitempty"`
	URLArgs           *[]string          `json:"url-args,omitempty"`

	// Live Activity fields
	Timestamp        *uint64 `json:"timestamp,omitempty"`
	Event            *string `json:"event,omitempty"`
	ContentState     any     `json:"content-state,omitempty"`
	AttributesType   *string `json:"attributes-type,omitempty"`
	Attributes       any     `json:"attributes,omitempty"`
	InputPushChannel *string `json:"input-push-channel,omitempty"`
	InputPushToken   *Flag   `json:"input-push-token,omitempty"`
}

// Payload is a finished notification: the aps dictionary, custom data,
// and the device token and options the transport needs to deliver it.
//
// A Payload may be read from several goroutines at once. AddCustomData
// must not run concurrently with anything else; use Clone to customize a
// payload per destination.
type Payload struct {
	Options     Options
	DeviceToken string
	APS         APS

	data map[string]json.RawMessage
}

// New returns a payload with no custom data.
func New(deviceToken string, options Options, aps APS) *Payload {
	return &Payload{
		Options:     options,
		DeviceToken: deviceToken,
		APS:         aps,
		data:        make(map[string]json.RawMessage),
	}
}

// AddCustomData serializes value and stores it at the root of the payload
// under key, replacing any previous value for that key. If value cannot be
// serialized a *SerializationError is returned and the payload is left
// untouched. Keys are not checked against "aps".
func (p *Payload) AddCustomData(key string, value any) (*Payload, error) {
	raw, err := marshal(value)
	if err != nil {
		return p, &SerializationError{Key: key, Err: err}
	}

	if p.data == nil {
		p.data = make(map[string]json.RawMessage)
	}
	p.data[key] = raw

	return p, nil
}

// CustomData returns the serialized custom data stored under key.
func (p *Payload) CustomData(key string) (json.RawMessage, bool) {
	raw, ok := p.data[key]
	return raw, ok
}

// CustomDataKeys returns the custom data keys in render order.
func (p *Payload) CustomDataKeys() []string {
	keys := make([]string, 0, len(p.data))
	for k := range p.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of the payload whose custom data can be changed
// without affecting p. The APS values are shared and should be treated as
// read only.
func (p *Payload) Clone() *Payload {
	c := *p
	c.data = make(map[string]json.RawMessage, len(p.data))
	for k, v := range p.data {
		c.data[k] = v
	}
	return &c
}

// ToJSON renders the wire body: one flat object holding aps followed by
// the custom data keys in ascending order.
func (p *Payload) ToJSON() ([]byte, error) {
	var buf bytes.Buffer

	aps, err := marshal(p.APS)
	if err != nil {
		return nil, &SerializationError{Err: err}
	}

	buf.WriteString(`{"aps":`)
	buf.Write(aps)

	for _, k := range p.CustomDataKeys() {
		key, err := marshal(k)
		if err != nil {
			return nil, &SerializationError{Key: k, Err: err}
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(p.data[k])
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ToJSONString is ToJSON as a string.
func (p *Payload) ToJSONString() (string, error) {
	b, err := p.ToJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MarshalJSON renders the same body as ToJSON. It has a value receiver so
// a Payload held by value in another struct or a map still renders as the
// wire body, without its token or options.
func (p Payload) MarshalJSON() ([]byte, error) {
	return p.ToJSON()
}

// marshal is json.Marshal without HTML escaping. The body goes to APNs,
// not a browser.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
