//go:build linux

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	serviceName = "gkospad.service"
	servicePath = "/etc/systemd/system/gkospad.service"
	udevPath    = "/etc/udev/rules.d/70-gkospad.rules"
)

// Install sets up the host for running gkospad without root: a udev rule
// opening the controller's hidraw node to a group, and a systemd service.
type Install struct {
	Group   string `help:"Group granted access to the controller's hidraw node" default:"input"`
	Vid     string `help:"USB vendor ID (hex) matched by the udev rule" default:"054c"`
	Pid     string `help:"USB product ID (hex) matched by the udev rule; empty matches every product of the vendor" default:"05c4"`
	Service bool   `help:"Install and start a systemd service running 'gkospad run'" default:"true" negatable:""`
}

func (i *Install) Run(logger *slog.Logger) error {
	vid, err := parseUSBID(i.Vid)
	if err != nil {
		return fmt.Errorf("vid: %w", err)
	}
	pid, err := parseUSBID(i.Pid)
	if err != nil {
		return fmt.Errorf("pid: %w", err)
	}

	if err := os.WriteFile(udevPath, []byte(udevRule(vid, pid, i.Group)), 0o644); err != nil {
		return err
	}
	if err := runCommand("udevadm", "control", "--reload-rules"); err != nil {
		return err
	}
	if err := runCommand("udevadm", "trigger", "--subsystem-match=hidraw"); err != nil {
		return err
	}
	logger.Info("udev rule installed", "path", udevPath, "group", i.Group)

	if !i.Service {
		return nil
	}
	exePath, err := currentExecutable()
	if err != nil {
		return err
	}
	if err := os.WriteFile(servicePath, []byte(systemdUnitContent(exePath)), 0o644); err != nil {
		return err
	}
	steps := [][]string{
		{"daemon-reload"},
		{"enable", serviceName},
		{"restart", serviceName},
	}
	for _, args := range steps {
		if err := runCommand("systemctl", args...); err != nil {
			return err
		}
	}
	logger.Info("gkospad systemd service installed", "path", servicePath, "exe", exePath)
	return nil
}

// Uninstall removes what Install set up.
type Uninstall struct{}

func (Uninstall) Run(logger *slog.Logger) error {
	var errs []error

	if _, err := os.Stat(servicePath); err == nil {
		if err := runCommand("systemctl", "stop", serviceName); err != nil {
			errs = append(errs, err)
		}
		if err := runCommand("systemctl", "disable", serviceName); err != nil {
			errs = append(errs, err)
		}
		if err := os.Remove(servicePath); err != nil {
			errs = append(errs, err)
		}
		if err := runCommand("systemctl", "daemon-reload"); err != nil {
			errs = append(errs, err)
		}
	}

	if err := os.Remove(udevPath); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	logger.Info("gkospad service and udev rule removed")
	return nil
}

func udevRule(vid, pid uint16, group string) string {
	match := fmt.Sprintf(`ATTRS{idVendor}=="%04x"`, vid)
	if pid != 0 {
		match += fmt.Sprintf(`, ATTRS{idProduct}=="%04x"`, pid)
	}
	return fmt.Sprintf("# DualShock 4 hidraw access for gkospad\nKERNEL==\"hidraw*\", SUBSYSTEM==\"hidraw\", %s, MODE=\"0660\", GROUP=\"%s\"\n", match, group)
}

func systemdUnitContent(exePath string) string {
	workingDir := filepath.Dir(exePath)
	return fmt.Sprintf(`[Unit]
Description=gkospad chord keyboard
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
ExecStart=%q run
WorkingDirectory=%s
Restart=on-failure
RestartSec=2

[Install]
WantedBy=multi-user.target
`, exePath, workingDir)
}

func currentExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(exe)
}

func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s failed: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return nil
}
