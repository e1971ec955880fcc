package platform

import (
	"fmt"
	"os"
	"strings"
)

// Autostart registers or unregisters the application with the OS login
// sequence. The mechanism differs per platform: a LaunchAgent plist on
// macOS, a desktop entry on Linux, and a registry Run value on Windows.
type Autostart struct {
	appName  string
	execPath string
}

// NewAutostart builds an Autostart for the current executable. The exec
// path is resolved once at construction.
func NewAutostart(appName string) (*Autostart, error) {
	if strings.TrimSpace(appName) == "" {
		return nil, fmt.Errorf("autostart: app name is empty")
	}
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("autostart: resolve executable: %w", err)
	}
	return &Autostart{appName: appName, execPath: execPath}, nil
}

// Enable registers the app to start at login.
func (a *Autostart) Enable() error {
	return a.enable()
}

// Disable removes the login registration. Missing registrations are not
// an error.
func (a *Autostart) Disable() error {
	return a.disable()
}

// slugName normalizes the app name to a filesystem-friendly identifier.
func (a *Autostart) slugName() string {
	name := strings.ToLower(strings.TrimSpace(a.appName))
	return strings.ReplaceAll(name, " ", "-")
}
