package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/board"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/session"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tracker"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headStyle = lipgloss.NewStyle().Bold(true)
)

type Context struct {
	Store   storage.Provider
	Tracker *tracker.Tracker
	Session *session.Manager
	Board   *board.Manager

	// Out and In default to stdout and stdin
	Out io.Writer
	In  io.Reader
}

// NewContext wires a tracker and session manager onto store.
func NewContext(store storage.Provider, opts ...tracker.Option) *Context {
	return &Context{
		Store:   store,
		Tracker: tracker.New(store, opts...),
		Session: session.NewManager(store),
		Board:   board.NewManager(store),
		Out:     os.Stdout,
		In:      os.Stdin,
	}
}

// Load opens the store and reads the habit collection, session and task board.
func (c *Context) Load() error {
	if err := c.Store.Load(); err != nil {
		return err
	}
	if err := c.Tracker.Load(); err != nil {
		return err
	}
	if err := c.Session.Load(); err != nil {
		return err
	}
	return c.Board.Load()
}

// Writer returns Out, falling back to stdout
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Reader returns In, falling back to stdin
func (c *Context) Reader() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// Printf writes formatted output for the user
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Writer(), format, args...)
}

// Println writes a line of output for the user
func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Writer(), args...)
}

// Success prints a checkmarked confirmation line
func (c *Context) Success(format string, args ...interface{}) {
	c.Println(okStyle.Render("✓") + " " + fmt.Sprintf(format, args...))
}

// Warn prints a highlighted warning line
func (c *Context) Warn(format string, args ...interface{}) {
	c.Println(warnStyle.Render("⚠") + " " + fmt.Sprintf(format, args...))
}

// Heading renders a bold section title
func Heading(s string) string {
	return headStyle.Render(s)
}

// Dim renders secondary text
func Dim(s string) string {
	return dimStyle.Render(s)
}

// Confirm asks a y/N question on In. Anything but y or yes is a no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.Reader()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// IsFileStore reports whether the store lives in a local file that can be backed up.
func (c *Context) IsFileStore() bool {
	switch c.Store.(type) {
	case *storage.SQLiteStore, *storage.JSONStore:
		return true
	}
	return false
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if !c.IsFileStore() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
