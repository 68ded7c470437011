// Package console implements the plain clear-and-redraw console view: the
// same sections as the dashboard's overview, printed top to bottom without
// taking over the terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
)

// DefaultPollInterval is how often the store is checked for a new snapshot.
const DefaultPollInterval = 250 * time.Millisecond

// Source is where the console reads snapshots from.
type Source interface {
	Read() snapshot.Snapshot
}

// Console redraws the latest snapshot each time a new one is published.
type Console struct {
	source       Source
	settings     config.Provider
	out          io.Writer
	output       *termenv.Output
	log          logger.Logger
	pollInterval time.Duration
	width        func() int
}

// Option configures a Console.
type Option func(*Console)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Console) { c.log = l }
}

// WithPollInterval changes how often the store is checked.
func WithPollInterval(d time.Duration) Option {
	return func(c *Console) { c.pollInterval = d }
}

// WithWidth fixes the terminal width instead of querying it.
func WithWidth(w int) Option {
	return func(c *Console) { c.width = func() int { return w } }
}

// New creates a console writing to out.
func New(source Source, settings config.Provider, out io.Writer, opts ...Option) *Console {
	c := &Console{
		source:       source,
		settings:     settings,
		out:          out,
		output:       termenv.NewOutput(out),
		log:          logger.Default(),
		pollInterval: DefaultPollInterval,
	}
	c.width = func() int { return terminalWidth(out) }
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run redraws until ctx is cancelled. It prints the startup message first and
// draws once per published snapshot.
func (c *Console) Run(ctx context.Context) error {
	c.output.HideCursor()
	defer c.output.ShowCursor()

	if _, err := fmt.Fprint(c.out, StartupMessage()); err != nil {
		return err
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	var lastSeq uint64
	for {
		snap := c.source.Read()
		if snap.Ready() && snap.Seq != lastSeq {
			if err := c.draw(snap); err != nil {
				return err
			}
			lastSeq = snap.Seq
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (c *Console) draw(snap snapshot.Snapshot) error {
	c.output.ClearScreen()
	c.output.MoveCursor(1, 1)
	_, err := fmt.Fprint(c.out, Render(snap, c.settings.Settings(), c.width()))
	if err != nil {
		c.log.Debug("console write failed: %v", err)
	}
	return err
}

// terminalWidth returns the width of out when it is a terminal, else 0.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
