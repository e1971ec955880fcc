//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (a *Autostart) enable() error {
	quotedPath := fmt.Sprintf(`"%s"`, strings.Trim(a.execPath, `"`))
	command := exec.Command(
		"reg", "add", registryRunKey,
		"/v", a.appName,
		"/t", "REG_SZ",
		"/d", quotedPath,
		"/f",
	)
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (a *Autostart) disable() error {
	command := exec.Command(
		"reg", "delete", registryRunKey,
		"/v", a.appName,
		"/f",
	)
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
