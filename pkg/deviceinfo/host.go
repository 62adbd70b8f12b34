package deviceinfo

import (
	"context"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Host collects device information from the local machine. Everything is
// best-effort: attributes the host cannot provide stay empty rather than
// failing collection.
type Host struct {
	deviceID   string
	appVersion string
}

// HostOption configures a Host source.
type HostOption func(*Host)

// WithDeviceID overrides the device identifier. Without it the hostname is
// used, which is stable enough for single-tenant machines.
func WithDeviceID(id string) HostOption {
	return func(h *Host) {
		h.deviceID = id
	}
}

// WithAppVersion sets the application version reported by this source. The
// host has no way to detect it.
func WithAppVersion(version string) HostOption {
	return func(h *Host) {
		h.appVersion = version
	}
}

// NewHost creates a host introspection source.
func NewHost(opts ...HostOption) *Host {
	h := &Host{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Info gathers what the local machine exposes: hostname, GOOS, timezone, and
// locale from the environment.
func (h *Host) Info(_ context.Context) (Info, error) {
	hostname, _ := os.Hostname()

	deviceID := h.deviceID
	if deviceID == "" {
		deviceID = hostname
	}

	return Info{
		DeviceID:   deviceID,
		DeviceName: hostname,
		OSName:     runtime.GOOS,
		AppVersion: h.appVersion,
		Timezone:   hostTimezone(),
		Locale:     NormalizeLocale(hostLocale()),
	}, nil
}

// hostTimezone resolves the IANA zone name when available, falling back to
// the abbreviated zone of the current time.
func hostTimezone() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	if name := time.Local.String(); name != "" && name != "Local" {
		return name
	}
	name, _ := time.Now().Zone()
	return name
}

// hostLocale reads the locale from the conventional POSIX variables in
// precedence order.
func hostLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// NormalizeLocale canonicalises a locale string to a BCP 47 tag, accepting
// POSIX spellings such as "en_US.UTF-8". Returns "" for values that do not
// name a language, so they drop out of fingerprints instead of polluting them.
func NormalizeLocale(locale string) string {
	if locale == "" {
		return ""
	}

	// Strip POSIX charset/modifier suffixes ("en_US.UTF-8@euro" -> "en_US")
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || strings.EqualFold(locale, "C") || strings.EqualFold(locale, "POSIX") {
		return ""
	}

	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return ""
	}
	return tag.String()
}
