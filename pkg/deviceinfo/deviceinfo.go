package deviceinfo

import "context"

// Info describes the device an application instance runs on. All fields are
// optional; empty values are simply skipped by the fingerprinting layer.
type Info struct {
	DeviceID     string `yaml:"device_id" json:"deviceId"`
	DeviceName   string `yaml:"device_name" json:"deviceName"`
	OSName       string `yaml:"os_name" json:"osName"`
	OSVersion    string `yaml:"os_version" json:"osVersion"`
	AppVersion   string `yaml:"app_version" json:"appVersion"`
	ScreenWidth  int    `yaml:"screen_width" json:"screenWidth"`
	ScreenHeight int    `yaml:"screen_height" json:"screenHeight"`
	Timezone     string `yaml:"timezone" json:"timezone"`
	Locale       string `yaml:"locale" json:"locale"`
}

// Source produces device information. Implementations may consult platform
// APIs, the environment, or static configuration.
type Source interface {
	Info(ctx context.Context) (Info, error)
}

// Static is a Source returning a fixed Info. Use it when the host
// application collects device attributes through its own platform APIs.
type Static struct {
	info Info
}

// NewStatic wraps info in a Source.
func NewStatic(info Info) Static {
	return Static{info: info}
}

// Info returns the wrapped value.
func (s Static) Info(_ context.Context) (Info, error) {
	return s.info, nil
}
