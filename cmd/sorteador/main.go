package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hpungsan/sorteador/internal/config"
	"github.com/hpungsan/sorteador/internal/db"
	"github.com/hpungsan/sorteador/internal/errors"
	"github.com/hpungsan/sorteador/internal/history"
	"github.com/hpungsan/sorteador/internal/logging"
	"github.com/hpungsan/sorteador/internal/mcp"
	"github.com/hpungsan/sorteador/internal/session"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"load": true, "columns": true, "column": true,
	"draw": true, "ranked": true, "groups": true, "category": true,
	"export": true, "history": true, "chart": true, "status": true,
	"serve": true, "mcp": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false // No args → MCP server
	}
	arg := args[1]
	if cliCommands[arg] {
		return true
	}
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion(args []string) bool {
	if len(args) < 2 {
		return false
	}
	arg := args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___          _                 _
  / __| ___ _ _| |_ ___ __ _ __| |___ _ _
  \__ \/ _ \ '_|  _/ -_) _' / _' / _ \ '_|
  |___/\___/_|  \__\___\__,_\__,_\___/_|

  Sorteio de nomes a partir de planilhas

  Usage: sorteador <command> [options]
         sorteador --help

  MCP server mode requires piped input.`)
}

func main() {
	os.Exit(run(os.Args))
}

// run wires config, logging, storage and the session, then dispatches to
// the CLI or the MCP server. Deferred cleanup runs before the exit code is
// returned.
func run(args []string) int {
	// No args + interactive terminal → show banner and exit
	if len(args) < 2 && isTerminal() {
		printBanner()
		return 0
	}

	// Handle --help/--version before touching any state
	if isHelpOrVersion(args) {
		if err := newCLIApp(nil).Run(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	// A missing .env is fine; variables may come from the real environment.
	_ = godotenv.Load()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		return 1
	}
	baseDir := filepath.Join(homeDir, ".sorteador")

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		return 1
	}
	cfg = config.ApplyEnv(cfg)

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to build logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		return 1
	}
	defer database.Close()

	sess, err := openSession(cfg, database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	// Save failures are logged by Close and do not change the exit status.
	defer func() { _ = sess.Close() }()

	if isCLIMode(args) {
		if err := newCLIApp(sess).Run(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", args[1])
		fmt.Fprintf(os.Stderr, "Run 'sorteador --help' for usage.\n")
		return 1
	}

	// MCP server mode (default)
	if err := runMCP(sess); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// openSession loads the history file and restores the persisted session.
// An unreadable history starts empty and is reported, not fatal.
func openSession(cfg *config.Config, database *sql.DB, logger *zap.Logger) (*session.Session, error) {
	histPath, err := cfg.HistoryPath()
	if err != nil {
		return nil, fmt.Errorf("could not resolve history path: %w", err)
	}

	hist, err := history.Load(histPath)
	if err != nil {
		if !errors.Is(err, errors.ErrCorruptState) && !errors.Is(err, errors.ErrIO) {
			return nil, err
		}
		logger.Warn("starting with an empty history", zap.String("path", histPath), zap.Error(err))
	}

	sess := session.New(cfg, hist, database, logger)
	if err := sess.Restore(); err != nil {
		logger.Warn("could not restore session", zap.Error(err))
	}
	return sess, nil
}

// runMCP serves the MCP tools over stdio.
func runMCP(sess *session.Session) error {
	if unknown := mcp.ValidateDisabledTools(sess.Config.DisabledTools); len(unknown) > 0 {
		sess.Logger.Warn("unknown tools in disabled_tools", zap.Strings("tools", unknown))
	}
	return mcp.Run(sess, Version)
}
