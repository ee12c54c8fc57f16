// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clock renders the current time in a named zone and a named
// strftime-style format. Zones and formats are resolved once, when the Clock
// is built, so a bad zone name or pattern fails at startup.
package clock

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/lestrrat-go/strftime"

	"github.com/pdiddy/resume-publisher/pkg/types"
)

// Zone names a time zone.
type Zone string

const (
	Local Zone = "local"
	UTC   Zone = "utc"
)

// Format names a date/time pattern.
type Format string

const (
	Long    Format = "long"
	Archive Format = "archive"
	Short   Format = "short"
	Time    Format = "time"
)

// Fallbacks for SHORT and TIME when the LONG format has no date/time split.
const (
	fallbackShort = "%Y-%m-%d"
	fallbackTime  = "%H:%M:%S"
)

// ZoneError reports a time zone that could not be resolved.
type ZoneError struct {
	Name string
	Err  error
}

func (e *ZoneError) Error() string {
	return fmt.Sprintf("resolving local time zone %q: %v", e.Name, e.Err)
}

func (e *ZoneError) Unwrap() error { return e.Err }

// Clock formats the current instant. It is safe for concurrent use.
type Clock struct {
	zones    map[Zone]*time.Location
	patterns map[Format]string
	formats  map[Format]*strftime.Strftime
	now      func() time.Time
}

// Option configures a Clock.
type Option func(*Clock)

// WithNow replaces the time source.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) { c.now = now }
}

// New resolves every zone and compiles every format in cfg.
func New(cfg types.TimeConfig, opts ...Option) (*Clock, error) {
	local, err := resolveLocal(cfg.TimeZone)
	if err != nil {
		return nil, err
	}

	short, timeFmt := DeriveShortTime(cfg.LongFormat)
	if cfg.ShortFormat != "" {
		short = cfg.ShortFormat
	}
	if cfg.TimeFormat != "" {
		timeFmt = cfg.TimeFormat
	}

	c := &Clock{
		zones: map[Zone]*time.Location{
			Local: local,
			UTC:   time.UTC,
		},
		patterns: map[Format]string{
			Long:    cfg.LongFormat,
			Archive: cfg.ArchiveFormat,
			Short:   short,
			Time:    timeFmt,
		},
		formats: make(map[Format]*strftime.Strftime, 4),
		now:     time.Now,
	}

	for name, p := range c.patterns {
		if p == "" {
			return nil, fmt.Errorf("%s date format is empty", strings.ToUpper(string(name)))
		}
		f, err := strftime.New(p)
		if err != nil {
			return nil, fmt.Errorf("compiling %s date format %q: %w", strings.ToUpper(string(name)), p, err)
		}
		c.formats[name] = f
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Now returns the current instant in zone rendered with format.
func (c *Clock) Now(zone Zone, format Format) (string, error) {
	return c.Format(c.now(), zone, format)
}

// Format renders t in zone with format.
func (c *Clock) Format(t time.Time, zone Zone, format Format) (string, error) {
	loc, err := c.Location(zone)
	if err != nil {
		return "", err
	}
	f, ok := c.formats[format]
	if !ok {
		return "", fmt.Errorf("unknown date format %q", format)
	}
	return f.FormatString(t.In(loc)), nil
}

// Location returns the resolved location for zone.
func (c *Clock) Location(zone Zone) (*time.Location, error) {
	loc, ok := c.zones[zone]
	if !ok {
		return nil, fmt.Errorf("unknown time zone %q", zone)
	}
	return loc, nil
}

// Pattern returns the strftime pattern for format, or "" if unknown.
func (c *Clock) Pattern(format Format) string {
	return c.patterns[format]
}

// Patterns returns a copy of every resolved pattern.
func (c *Clock) Patterns() map[Format]string {
	out := make(map[Format]string, len(c.patterns))
	for k, v := range c.patterns {
		out[k] = v
	}
	return out
}

// DeriveShortTime splits a long date/time pattern at its first space. The
// part before it is the date pattern; the first token after it is the time
// pattern. Patterns without a space yield the built-in fallbacks.
func DeriveShortTime(long string) (short, timeFmt string) {
	date, rest, ok := strings.Cut(strings.TrimSpace(long), " ")
	if !ok || date == "" {
		return fallbackShort, fallbackTime
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return date, fallbackTime
	}
	return date, fields[0]
}

// ParseZone maps a user-supplied zone name to a Zone.
func ParseZone(s string) (Zone, error) {
	switch z := Zone(strings.ToLower(s)); z {
	case Local, UTC:
		return z, nil
	}
	return "", fmt.Errorf("unknown zone %q (want local or utc)", s)
}

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Long, Archive, Short, Time:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want long, archive, short or time)", s)
}

// resolveLocal loads the configured zone, or the machine zone when name is
// empty. A TZ variable naming a zone that cannot be loaded is an error, since
// the runtime would otherwise fall back to UTC silently.
func resolveLocal(name string) (*time.Location, error) {
	if name != "" && !strings.EqualFold(name, "local") {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, &ZoneError{Name: name, Err: err}
		}
		return loc, nil
	}

	tz := strings.TrimPrefix(os.Getenv("TZ"), ":")
	if tz != "" && !filepath.IsAbs(tz) {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, &ZoneError{Name: tz, Err: err}
		}
		return loc, nil
	}
	return time.Local, nil
}
