package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/tartampluch/go-thoinoi/internal/config"
	"github.com/tartampluch/go-thoinoi/internal/engine"
	"github.com/tartampluch/go-thoinoi/internal/gallery"
	"github.com/tartampluch/go-thoinoi/internal/rsvp"
	"github.com/tartampluch/go-thoinoi/internal/server"
	"github.com/tartampluch/go-thoinoi/internal/share"
	"github.com/tartampluch/go-thoinoi/internal/ui"
	"github.com/zalando/go-keyring"
)

// main delegates to runMain so deferred calls run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	storePassword := flag.Bool(config.FlagStorePassword, false, config.FlagDescStorePass)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	inv, err := config.LoadInvitation()
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	if *storePassword {
		if err := savePassword(inv.Gallery.WebUser, os.Stdin); err != nil {
			slog.Error(config.ErrAppFailed,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyError, err,
			)
			return config.ExitCodeError
		}
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, inv); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires the invitation service and serves until ctx is cancelled.
func run(ctx context.Context, inv config.Invitation) error {
	catalog, err := ui.NewCatalog(inv.Language)
	if err != nil {
		return err
	}
	presenter, err := ui.NewPresenter(inv, catalog)
	if err != nil {
		return err
	}

	items := gallery.NewLoader().LoadOrDefault(ctx, inv.Gallery)
	sessions, err := ui.NewSessionStore(items, inv.MusicLoop, rsvp.SimulatedSubmitter{Delay: inv.SubmitDelay})
	if err != nil {
		return err
	}

	srv := server.New(inv, presenter, sessions)
	if err := srv.BuildAssets(&engine.Generator{}); err != nil {
		return err
	}

	// Scannable from the terminal, handy when testing on a phone.
	if qr, err := share.QRCodeText(inv.BaseURL); err == nil {
		fmt.Fprint(os.Stderr, qr)
	}

	go sessions.RunJanitor(ctx, config.SessionSweepInterval)

	return srv.Start(ctx)
}

// savePassword reads one line from r and stores it in the OS keyring for user.
func savePassword(user string, r io.Reader) error {
	if user == "" {
		return errors.New(config.ErrGalleryUserEmpty)
	}
	fmt.Fprintf(os.Stderr, config.MsgPasswordPrompt, user)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", config.ErrKeyringStore, err)
	}

	if err := keyring.Set(config.KeyringService, user, strings.TrimRight(line, "\r\n")); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringStore, err)
	}
	slog.Info(config.MsgPassStored,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyUser, user,
	)
	return nil
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger: stdout plus a log file in
// the user's cache directory when one can be created.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
