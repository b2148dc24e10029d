package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/go-kit/kit/log/level"
	"github.com/kolide/apnskit/pkg/notification"
	"github.com/kolide/apnskit/pkg/payload"
	"github.com/kolide/kit/logutil"
	"github.com/peterbourgon/ff/v3"
	"github.com/pkg/errors"
)

func runRender(args []string, out io.Writer) error {
	flagset := flag.NewFlagSet("apnskit render", flag.ContinueOnError)

	var (
		flTemplate         = flagset.String("template", "", "YAML or JSON notification template. Content flags are ignored when set")
		flTitle            = flagset.String("title", "", "alert title")
		flSubtitle         = flagset.String("subtitle", "", "alert subtitle")
		flBody             = flagset.String("body", "", "alert body")
		flLocKey           = flagset.String("loc-key", "", "localization key for the body")
		flBadge            = flagset.Int64("badge", -1, "badge number, omitted when negative")
		flSound            = flagset.String("sound", "", "sound name")
		flCritical         = flagset.Bool("critical", false, "send as a critical alert")
		flVolume           = flagset.Float64("volume", -1, "critical alert volume between 0 and 1, omitted when negative")
		flCategory         = flagset.String("category", "", "notification category")
		flThreadID         = flagset.String("thread-id", "", "thread identifier")
		flInterruption     = flagset.String("interruption-level", "", "active, critical, passive or time-sensitive")
		flMutableContent   = flagset.Bool("mutable-content", false, "allow a notification service extension to modify the content")
		flContentAvailable = flagset.Bool("content-available", false, "background update")
		flWebAction        = flagset.String("web-action", "", "render a Safari web push notification with this action label")
		flToken            = flagset.String("token", "", "device token")
		flTopic            = flagset.String("topic", "", "apns-topic")
		flPushType         = flagset.String("push-type", "", "apns-push-type")
		flPriority         = flagset.String("priority", "", "apns-priority (1, 5 or 10)")
		flCollapseID       = flagset.String("collapse-id", "", "apns-collapse-id")
		flExpiration       = flagset.Uint64("expiration", 0, "apns-expiration in epoch seconds, omitted when zero")
		flGenerateID       = flagset.Bool("generate-id", false, "stamp a random apns-id")
		flHeaders          = flagset.Bool("headers", false, "print request headers before the body")
		flDebug            = flagset.Bool("debug", false, "enable debug logging")
		_                  = flagset.String("config", "", "config file (optional)")
	)

	var flURLArgs repeatedFlag
	flagset.Var(&flURLArgs, "url-arg", "web push url argument (repeatable)")
	var flData keyValueFlag
	flagset.Var(&flData, "data", "custom data as key=value, value parsed as JSON when valid (repeatable)")

	if err := ff.Parse(flagset, args,
		ff.WithEnvVarPrefix("APNSKIT"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		return errors.Wrap(err, "parsing flags")
	}

	logger := logutil.NewCLILogger(*flDebug)

	opts := payload.Options{
		Topic:      *flTopic,
		CollapseID: *flCollapseID,
	}
	if *flPushType != "" {
		pt, err := payload.ParsePushType(*flPushType)
		if err != nil {
			return err
		}
		opts.PushType = pt
	}
	if *flPriority != "" {
		p, err := payload.ParsePriority(*flPriority)
		if err != nil {
			return err
		}
		opts.Priority = p
	}
	if *flExpiration != 0 {
		expiration := *flExpiration
		opts.Expiration = &expiration
	}

	if *flBadge > math.MaxUint32 {
		return errors.Errorf("badge %d is larger than %d", *flBadge, uint32(math.MaxUint32))
	}

	var interruption payload.InterruptionLevel
	if *flInterruption != "" {
		l, err := payload.ParseInterruptionLevel(*flInterruption)
		if err != nil {
			return err
		}
		interruption = l
	}

	var p *payload.Payload
	switch {
	case *flTemplate != "":
		tmpl, err := notification.LoadTemplateFile(*flTemplate)
		if err != nil {
			return err
		}
		p, err = tmpl.Payload(*flToken)
		if err != nil {
			return errors.Wrap(err, "building template payload")
		}
		p.Options = overlayOptions(p.Options, opts)

	case *flWebAction != "":
		alert := payload.WebPushAlert{
			Title:  *flTitle,
			Body:   *flBody,
			Action: *flWebAction,
		}
		if err := alert.Validate(); err != nil {
			return err
		}
		b := notification.NewWebBuilder(alert, flURLArgs)
		if *flSound != "" {
			b = b.Sound(*flSound)
		}
		if interruption != "" {
			b = b.InterruptionLevel(interruption)
		}
		p = b.Build(*flToken, opts)

	default:
		b := notification.NewDefaultBuilder()
		if *flTitle != "" {
			b = b.Title(*flTitle)
		}
		if *flSubtitle != "" {
			b = b.Subtitle(*flSubtitle)
		}
		if *flBody != "" {
			b = b.Body(*flBody)
		}
		if *flLocKey != "" {
			b = b.LocKey(*flLocKey)
		}
		if *flBadge >= 0 {
			b = b.Badge(uint32(*flBadge))
		}
		if *flSound != "" {
			b = b.Sound(*flSound)
		}
		if *flCritical {
			var volume *float64
			if *flVolume >= 0 {
				volume = flVolume
			}
			b = b.Critical(true, volume)
		}
		if *flCategory != "" {
			b = b.Category(*flCategory)
		}
		if *flThreadID != "" {
			b = b.ThreadID(*flThreadID)
		}
		if interruption != "" {
			b = b.InterruptionLevel(interruption)
		}
		if *flMutableContent {
			b = b.MutableContent()
		}
		if *flContentAvailable {
			b = b.ContentAvailable()
		}
		p = b.Build(*flToken, opts)
	}

	for _, k := range flData.keys {
		if _, err := p.AddCustomData(k, dataValue(flData.values[k])); err != nil {
			return err
		}
	}

	if *flGenerateID {
		p.Options = p.Options.WithGeneratedID()
	}

	body, err := p.ToJSON()
	if err != nil {
		return err
	}

	level.Debug(logger).Log(
		"msg", "rendered payload",
		"bytes", len(body),
		"custom_keys", len(p.CustomDataKeys()),
	)

	if *flHeaders {
		headers := p.Options.Headers()
		names := make([]string, 0, len(headers))
		for name := range headers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "%s: %s\n", name, headers[name])
		}
		fmt.Fprintln(out)
	}

	_, err = fmt.Fprintln(out, string(body))
	return err
}

// overlayOptions replaces the fields of base that are set in flags.
func overlayOptions(base, flags payload.Options) payload.Options {
	if flags.Topic != "" {
		base.Topic = flags.Topic
	}
	if flags.CollapseID != "" {
		base.CollapseID = flags.CollapseID
	}
	if flags.PushType != "" {
		base.PushType = flags.PushType
	}
	if flags.Priority != 0 {
		base.Priority = flags.Priority
	}
	if flags.Expiration != nil {
		base.Expiration = flags.Expiration
	}
	return base
}

// dataValue treats valid JSON as JSON and anything else as a string, so
// -data count=3 is a number and -data name=bob is a string.
func dataValue(v string) any {
	if json.Valid([]byte(v)) {
		return json.RawMessage(v)
	}
	return v
}
