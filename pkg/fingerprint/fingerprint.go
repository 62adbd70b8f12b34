package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/stayware/sessionkit/pkg/deviceinfo"
)

// Fingerprint captures the device attributes that went into the hash along
// with the hash itself. The attributes travel with the hash so operators can
// see what a stored fingerprint was built from.
type Fingerprint struct {
	DeviceID     string `json:"deviceId,omitempty"`
	DeviceName   string `json:"deviceName,omitempty"`
	OSName       string `json:"osName,omitempty"`
	OSVersion    string `json:"osVersion,omitempty"`
	AppVersion   string `json:"appVersion,omitempty"`
	ScreenWidth  int    `json:"screenWidth,omitempty"`
	ScreenHeight int    `json:"screenHeight,omitempty"`
	Timezone     string `json:"timezone,omitempty"`
	Locale       string `json:"locale,omitempty"`
	Hash         string `json:"hash"`
}

// Compute builds the fingerprint for info. It combines the non-empty
// attributes in a fixed order and hashes them with SHA-256, returning the
// first 16 bytes as a 32-character hex string.
func Compute(info deviceinfo.Info) Fingerprint {
	var screen string
	if info.ScreenWidth > 0 && info.ScreenHeight > 0 {
		screen = fmt.Sprintf("%dx%d", info.ScreenWidth, info.ScreenHeight)
	}

	components := []string{
		info.DeviceID,
		info.DeviceName,
		info.OSName,
		info.OSVersion,
		info.AppVersion,
		screen,
		info.Timezone,
		info.Locale,
	}

	// Filter out empty components
	var filtered []string
	for _, comp := range components {
		if comp != "" {
			filtered = append(filtered, comp)
		}
	}

	combined := strings.Join(filtered, "|")
	hash := sha256.Sum256([]byte(combined))

	return Fingerprint{
		DeviceID:     info.DeviceID,
		DeviceName:   info.DeviceName,
		OSName:       info.OSName,
		OSVersion:    info.OSVersion,
		AppVersion:   info.AppVersion,
		ScreenWidth:  info.ScreenWidth,
		ScreenHeight: info.ScreenHeight,
		Timezone:     info.Timezone,
		Locale:       info.Locale,
		Hash:         hex.EncodeToString(hash[:16]),
	}
}

// Match compares two fingerprint hashes in constant time to prevent
// timing-based side channels.
func Match(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var result byte
	for i := 0; i < len(a); i++ {
		result |= a[i] ^ b[i]
	}
	return result == 0
}
