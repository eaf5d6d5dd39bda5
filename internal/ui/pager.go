package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// Pager shows long content in ov
type Pager struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPager creates a new pager
func NewPager(program *tea.Program) *Pager {
	return &Pager{
		program: program,
	}
}

// Show hands the terminal to ov until the user quits it
func (p *Pager) Show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
