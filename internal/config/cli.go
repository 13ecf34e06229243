// Package config declares the command line surface. Every flag can also be
// set from a JSON, YAML or TOML config file.
package config

import "github.com/gkospad/gkospad/internal/cmd"

type CLI struct {
	Log    LogConfig `embed:"" prefix:"log."`
	Config string    `help:"Path to a config file (JSON/YAML/TOML)" env:"GKOSPAD_CONFIG" type:"path"`

	Run     cmd.Run        `cmd:"" default:"withargs" help:"Read a DualShock 4 and type chords on a VIIPER virtual keyboard"`
	Replay  cmd.Replay     `cmd:"" help:"Feed recorded reports through the chord engine"`
	Profile cmd.ProfileCmd `cmd:"" help:"Inspect and validate mapping profiles"`
	Cfg     cmd.ConfigCmd  `cmd:"" name:"config" help:"Configuration file helpers"`

	Install   cmd.Install   `cmd:"" help:"Install the udev rule and systemd service (Linux, needs root)"`
	Uninstall cmd.Uninstall `cmd:"" help:"Remove the udev rule and systemd service"`
}

type LogConfig struct {
	Level      string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"GKOSPAD_LOG_LEVEL"`
	File       string `help:"Also write logs to this file" env:"GKOSPAD_LOG_FILE"`
	ReportFile string `help:"Dump every controller report to this file (replayable)" env:"GKOSPAD_LOG_REPORT_FILE"`
}
