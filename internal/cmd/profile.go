package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gkospad/gkospad/internal/configpaths"
	"github.com/gkospad/gkospad/profile"
)

// ProfileCmd groups profile subcommands.
type ProfileCmd struct {
	Dump     ProfileDump     `cmd:"" help:"Print a profile with every default filled in"`
	Validate ProfileValidate `cmd:"" help:"Check profile files against the profile schema"`
}

// ProfileDump prints the built-in profile, or the given one, in full. The
// output is a starting point for a custom profile.
type ProfileDump struct {
	Path   string `arg:"" optional:"" help:"Profile to print; the built-in profile when empty" type:"path"`
	Format string `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output string `help:"Write to this file instead of stdout"`
	Force  bool   `help:"Overwrite if the file already exists"`

	Stdout io.Writer `kong:"-"`
}

func (c *ProfileDump) Run(logger *slog.Logger) error {
	format, err := profile.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	p := profile.Default()
	if c.Path != "" {
		if p, err = profile.Load(c.Path); err != nil {
			return err
		}
	}
	data, err := profile.Marshal(p, format)
	if err != nil {
		return err
	}

	if c.Output == "" {
		w := c.Stdout
		if w == nil {
			w = os.Stdout
		}
		_, err := w.Write(data)
		return err
	}
	if !c.Force {
		if _, err := os.Stat(c.Output); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(c.Output); err != nil {
		return err
	}
	if err := os.WriteFile(c.Output, data, 0o644); err != nil {
		return err
	}
	logger.Info("Wrote profile", "path", c.Output)
	return nil
}

// ProfileValidate loads each file and reports the first problem in it.
type ProfileValidate struct {
	Paths []string `arg:"" help:"Profile files to check" type:"path"`

	Stdout io.Writer `kong:"-"`
}

func (c *ProfileValidate) Run() error {
	w := c.Stdout
	if w == nil {
		w = os.Stdout
	}
	var errs []error
	for _, path := range c.Paths {
		if _, err := profile.Load(path); err != nil {
			fmt.Fprintf(w, "%s: %v\n", path, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "%s: ok\n", path)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d profiles are invalid", len(errs), len(c.Paths))
	}
	return nil
}
