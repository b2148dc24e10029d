// Package notification provides builders that assemble APNs payloads.
//
// DefaultBuilder covers regular iOS and macOS notifications, including
// critical alerts and Live Activities. WebBuilder covers Safari web push.
// Templates describe either kind declaratively.
package notification

import (
	"github.com/kolide/apnskit/pkg/payload"
)

// Builder finalizes accumulated notification fields into a payload for
// one device.
type Builder interface {
	Build(deviceToken string, options payload.Options) *payload.Payload
}

var (
	_ Builder = DefaultBuilder{}
	_ Builder = WebBuilder{}
)
