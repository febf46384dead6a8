package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sadopc/tenk/internal/logger"
	"github.com/sadopc/tenk/internal/progress"
	"github.com/sadopc/tenk/internal/session"
	"github.com/sadopc/tenk/internal/store"
	"github.com/sadopc/tenk/internal/tracker"
	"golang.org/x/term"
)

// Globals are the flags shared by every command.
type Globals struct {
	File    string `help:"Progress file." type:"path" default:"activity_progress.json" env:"TENK_FILE"`
	DataDir string `help:"Directory for history, logs and the session lock." type:"path" name:"data-dir" env:"TENK_DATA_DIR"`
	Debug   bool   `help:"Mirror debug logs to stderr." env:"TENK_DEBUG"`
}

// Root is the command tree.
type Root struct {
	Globals

	Menu    MenuCmd    `cmd:"" help:"Numbered text menu." default:"1"`
	Tui     TuiCmd     `cmd:"" help:"Full-screen dashboard."`
	Create  CreateCmd  `cmd:"" help:"Create an activity with the default budget."`
	List    ListCmd    `cmd:"" help:"List activities."`
	Start   StartCmd   `cmd:"" help:"Count an activity down. Press p to pause."`
	Add     AddCmd     `cmd:"" help:"Add or subtract seconds from an activity."`
	Remove  RemoveCmd  `cmd:"" help:"Remove an activity."`
	History HistoryCmd `cmd:"" help:"Show recorded sessions and daily totals."`
	Export  ExportCmd  `cmd:"" help:"Export activities or sessions."`
}

// Context is passed to every command's Run method.
type Context struct {
	Tracker  *tracker.Tracker
	Progress *progress.Store
	History  *store.Store
	DataDir  string

	Stdin *os.File
	Out   io.Writer
}

// Open prepares logging, loads the progress file and opens the history
// database.
func Open(g Globals) (*Context, error) {
	dataDir := g.DataDir
	if dataDir == "" {
		dir, err := store.DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	if err := logger.Init(logger.Config{Debug: g.Debug, DataDir: dataDir}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	p := progress.New(g.File)
	if err := p.Load(); err != nil {
		return nil, err
	}

	h, err := store.New(store.DBPath(dataDir))
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	logger.Debug("opened", "file", g.File, "data_dir", dataDir, "activities", p.Len())
	return &Context{
		Tracker: tracker.New(p,
			tracker.WithHistory(h),
			tracker.WithLockPath(filepath.Join(dataDir, session.LockFile)),
		),
		Progress: p,
		History:  h,
		DataDir:  dataDir,
		Stdin:    os.Stdin,
		Out:      os.Stdout,
	}, nil
}

func (c *Context) Close() error {
	if c.History == nil {
		return nil
	}
	return c.History.Close()
}

// keys opens the terminal key listener on stdin. Without a terminal there is
// no listener and only a signal pauses the countdown.
func (c *Context) keys() (session.KeyReader, error) {
	if !term.IsTerminal(int(c.Stdin.Fd())) {
		logger.Warn("stdin is not a terminal, pause with Ctrl+C")
		return nil, nil
	}
	return session.NewTerminalKeys(c.Stdin)
}
