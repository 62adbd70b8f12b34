package deviceinfo_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayware/sessionkit/pkg/deviceinfo"
)

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.yaml")
	profile := `
device_id: kiosk-7f3a
device_name: Lobby Kiosk
os_name: linux
os_version: "6.8"
app_version: 3.2.1
screen_width: 1920
screen_height: 1080
timezone: America/New_York
locale: en-US
`
	require.NoError(t, os.WriteFile(path, []byte(profile), 0o600))

	info, err := deviceinfo.LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "kiosk-7f3a", info.DeviceID)
	assert.Equal(t, "Lobby Kiosk", info.DeviceName)
	assert.Equal(t, "linux", info.OSName)
	assert.Equal(t, "6.8", info.OSVersion)
	assert.Equal(t, "3.2.1", info.AppVersion)
	assert.Equal(t, 1920, info.ScreenWidth)
	assert.Equal(t, 1080, info.ScreenHeight)
	assert.Equal(t, "America/New_York", info.Timezone)
	assert.Equal(t, "en-US", info.Locale)
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := deviceinfo.LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadProfile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("device_id: [unclosed"), 0o600))

	_, err := deviceinfo.LoadProfile(path)
	assert.Error(t, err)
}
