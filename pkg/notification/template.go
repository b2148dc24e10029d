package notification

import (
	"bytes"
	"encoding/json"
	"os"
	"sort"

	"github.com/ghodss/yaml"
	"github.com/kolide/apnskit/pkg/payload"
	"github.com/pkg/errors"
)

// Template is a declarative notification, usually kept in a YAML or JSON
// file. Field names match the aps keys. When Web is set the template
// describes a web push notification and the default-only fields are
// ignored.
type Template struct {
	Title        *string  `json:"title,omitempty"`
	Subtitle     *string  `json:"subtitle,omitempty"`
	Body         *string  `json:"body,omitempty"`
	TitleLocKey  *string  `json:"title-loc-key,omitempty"`
	TitleLocArgs []string `json:"title-loc-args,omitempty"`
	ActionLocKey *string  `json:"action-loc-key,omitempty"`
	LocKey       *string  `json:"loc-key,omitempty"`
	LocArgs      []string `json:"loc-args,omitempty"`
	LaunchImage  *string  `json:"launch-image,omitempty"`

	Badge             *uint32                    `json:"badge,omitempty"`
	Sound             *string                    `json:"sound,omitempty"`
	Critical          bool                       `json:"critical,omitempty"`
	Volume            *float64                   `json:"volume,omitempty"`
	ThreadID          *string                    `json:"thread-id,omitempty"`
	Category          *string                    `json:"category,omitempty"`
	MutableContent    bool                       `json:"mutable-content,omitempty"`
	ContentAvailable  bool                       `json:"content-available,omitempty"`
	InterruptionLevel *payload.InterruptionLevel `json:"interruption-level,omitempty"`
	DismissalDate     *uint64                    `json:"dismissal-date,omitempty"`

	Timestamp        *uint64 `json:"timestamp,omitempty"`
	Event            *string `json:"event,omitempty"`
	ContentState     any     `json:"content-state,omitempty"`
	AttributesType   *string `json:"attributes-type,omitempty"`
	Attributes       any     `json:"attributes,omitempty"`
	InputPushChannel *string `json:"input-push-channel,omitempty"`
	InputPushToken   bool    `json:"input-push-token,omitempty"`

	Web     *WebTemplate    `json:"web,omitempty"`
	Data    map[string]any  `json:"data,omitempty"`
	Options payload.Options `json:"options,omitempty"`
}

// WebTemplate is the web push section of a Template.
type WebTemplate struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Action  string   `json:"action"`
	URLArgs []string `json:"url-args,omitempty"`
}

func (w *WebTemplate) alert() payload.WebPushAlert {
	return payload.WebPushAlert{
		Title:  w.Title,
		Body:   w.Body,
		Action: w.Action,
	}
}

// LoadTemplate parses a template from YAML or JSON. Unknown keys are an
// error, so typos in a template file do not silently drop fields.
func LoadTemplate(data []byte) (*Template, error) {
	jsonBytes, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, errors.Wrap(err, "converting template yaml")
	}

	dec := json.NewDecoder(bytes.NewReader(jsonBytes))
	dec.DisallowUnknownFields()
	dec.UseNumber()

	var t Template
	if err := dec.Decode(&t); err != nil {
		return nil, errors.Wrap(err, "decoding template")
	}

	if t.Web != nil {
		if err := t.Web.alert().Validate(); err != nil {
			return nil, errors.Wrap(err, "web template")
		}
	}

	return &t, nil
}

// LoadTemplateFile reads and parses the template at path.
func LoadTemplateFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading template %s", path)
	}

	t, err := LoadTemplate(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading template %s", path)
	}

	return t, nil
}

// Builder returns a builder configured from the template.
func (t *Template) Builder() Builder {
	if t.Web != nil {
		return t.webBuilder()
	}
	return t.defaultBuilder()
}

// Payload builds the template for deviceToken and attaches its custom
// data, in key order.
func (t *Template) Payload(deviceToken string) (*payload.Payload, error) {
	p := t.Builder().Build(deviceToken, t.Options)

	keys := make([]string, 0, len(t.Data))
	for k := range t.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := p.AddCustomData(k, t.Data[k]); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (t *Template) webBuilder() WebBuilder {
	b := NewWebBuilder(t.Web.alert(), t.Web.URLArgs)

	if t.Sound != nil {
		b = b.Sound(*t.Sound)
	}
	if t.InterruptionLevel != nil {
		b = b.InterruptionLevel(*t.InterruptionLevel)
	}

	return b
}

func (t *Template) defaultBuilder() DefaultBuilder {
	b := NewDefaultBuilder()

	if t.Title != nil {
		b = b.Title(*t.Title)
	}
	if t.Subtitle != nil {
		b = b.Subtitle(*t.Subtitle)
	}
	if t.Body != nil {
		b = b.Body(*t.Body)
	}
	if t.TitleLocKey != nil {
		b = b.TitleLocKey(*t.TitleLocKey)
	}
	if t.TitleLocArgs != nil {
		b = b.TitleLocArgs(t.TitleLocArgs...)
	}
	if t.ActionLocKey != nil {
		b = b.ActionLocKey(*t.ActionLocKey)
	}
	if t.LocKey != nil {
		b = b.LocKey(*t.LocKey)
	}
	if t.LocArgs != nil {
		b = b.LocArgs(t.LocArgs...)
	}
	if t.LaunchImage != nil {
		b = b.LaunchImage(*t.LaunchImage)
	}

	if t.Badge != nil {
		b = b.Badge(*t.Badge)
	}
	if t.Sound != nil {
		b = b.Sound(*t.Sound)
	}
	b = b.Critical(t.Critical, t.Volume)
	if t.ThreadID != nil {
		b = b.ThreadID(*t.ThreadID)
	}
	if t.Category != nil {
		b = b.Category(*t.Category)
	}
	if t.MutableContent {
		b = b.MutableContent()
	}
	if t.ContentAvailable {
		b = b.ContentAvailable()
	}
	if t.InterruptionLevel != nil {
		b = b.InterruptionLevel(*t.InterruptionLevel)
	}
	if t.DismissalDate != nil {
		b = b.DismissalDate(*t.DismissalDate)
	}

	if t.Timestamp != nil {
		b = b.Timestamp(*t.Timestamp)
	}
	if t.Event != nil {
		b = b.Event(*t.Event)
	}
	if t.ContentState != nil {
		b = b.ContentState(t.ContentState)
	}
	if t.AttributesType != nil {
		b = b.AttributesType(*t.AttributesType)
	}
	if t.Attributes != nil {
		b = b.Attributes(t.Attributes)
	}
	if t.InputPushChannel != nil {
		b = b.InputPushChannel(*t.InputPushChannel)
	}
	if t.InputPushToken {
		b = b.InputPushToken()
	}

	return b
}
