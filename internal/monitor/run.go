package monitor

import (
	"context"
	"errors"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// LogFileEnv names a file that receives log output while the dashboard owns
// the terminal. Without it, log output is discarded until Run returns.
const LogFileEnv = "SYSMON_LOG"

// Run shows the dashboard until the user quits or ctx is cancelled.
func Run(ctx context.Context, model Model) error {
	restore, err := redirectLog()
	if err != nil {
		return err
	}
	defer restore()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// redirectLog keeps stdlib log output from drawing over the alt screen.
func redirectLog() (func(), error) {
	prevOut, prevFlags, prevPrefix := log.Writer(), log.Flags(), log.Prefix()
	restore := func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
		log.SetPrefix(prevPrefix)
	}

	path := os.Getenv(LogFileEnv)
	if path == "" {
		log.SetOutput(io.Discard)
		return restore, nil
	}

	f, err := tea.LogToFile(path, "sysmon")
	if err != nil {
		return nil, err
	}
	return func() {
		f.Close()
		restore()
	}, nil
}
