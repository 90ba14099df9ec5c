// Package daemon implements the summ background process: a unix-socket
// server over the session registry, a status monitor, and crash recovery.
//
// Exactly one daemon runs per base directory, enforced with a file lock.
// Stopping the daemon never kills hosted tmux sessions; they are re-adopted
// by the next daemon via Recover.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"github.com/summ-dev/summ/internal/config"
	"github.com/summ-dev/summ/internal/hooks"
	"github.com/summ-dev/summ/internal/protocol"
	"github.com/summ-dev/summ/internal/session"
	"github.com/summ-dev/summ/internal/tmux"
)

// ErrAlreadyRunning means another daemon holds the lock for this base dir.
var ErrAlreadyRunning = errors.New("daemon already running")

// Daemon owns the socket, the registry, and the monitor goroutine.
type Daemon struct {
	cfg     *config.Config
	reg     *session.Registry
	mux     Multiplexer
	logger  *log.Logger
	version string

	monitorInterval time.Duration
	shutdownGrace   time.Duration
}

// New builds a daemon over the real tmux wrapper.
func New(cfg *config.Config, version string) *Daemon {
	return &Daemon{
		cfg:             cfg,
		reg:             session.NewRegistry(),
		mux:             tmux.NewTmux(),
		version:         version,
		monitorInterval: config.DefaultMonitorInterval,
		shutdownGrace:   config.DefaultShutdownGrace,
	}
}

// Run starts the daemon and blocks until ctx is cancelled or SIGINT/SIGTERM
// arrives. It returns ErrAlreadyRunning when another instance holds the lock.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.mux.CheckAvailable(); err != nil {
		return protocol.Errf(protocol.CodeMultiplexerUnavailable,
			"tmux is not usable (install tmux 3.0 or later): %v", err)
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}

	logFile, err := os.OpenFile(d.cfg.DaemonLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening daemon log: %w", err)
	}
	defer logFile.Close()
	d.logger = log.New(logFile, "", log.LstdFlags)

	fileLock := flock.New(d.cfg.LockFilePath())
	locked, err := fileLock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring daemon lock: %w", err)
	}
	if !locked {
		return ErrAlreadyRunning
	}
	defer fileLock.Unlock()

	if err := d.writePIDFile(); err != nil {
		return err
	}
	defer os.Remove(d.cfg.PIDFilePath())

	// Refreshed on every start so upgrades reach running installs.
	if err := hooks.InstallScript(d.cfg.BaseDir); err != nil {
		d.logger.Printf("warning: failed to install hook script: %v", err)
	}

	d.logger.Printf("summ daemon %s starting (pid %d)", d.version, os.Getpid())

	recovered, err := Recover(d.cfg, d.mux, d.logger)
	if err != nil {
		return fmt.Errorf("recovering sessions: %w", err)
	}
	d.reg.Replace(recovered)

	// A socket file left by a crashed daemon would block the bind. The lock
	// guarantees no live daemon owns it.
	if err := os.Remove(d.cfg.SocketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket: %w", err)
	}
	listener, err := net.Listen("unix", d.cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("binding socket %s: %w", d.cfg.SocketPath, err)
	}
	defer os.Remove(d.cfg.SocketPath)

	if err := os.Chmod(d.cfg.SocketPath, 0o600); err != nil {
		d.logger.Printf("warning: failed to restrict socket permissions: %v", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go d.monitor(ctx)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	d.logger.Printf("listening on %s", d.cfg.SocketPath)

	handler := NewHandler(d.cfg, d.reg, d.mux, d.logger, d.version)
	var wg sync.WaitGroup

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			d.logger.Printf("accept error: %v", err)
			time.Sleep(config.DefaultAcceptRetryDelay)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			handler.HandleConn(conn)
		}()
	}

	d.logger.Printf("shutting down, waiting up to %s for in-flight requests", d.shutdownGrace)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d.shutdownGrace):
		d.logger.Printf("shutdown grace period expired with requests in flight")
	}

	// Hosted tmux sessions stay up; the next daemon adopts them.
	d.logger.Printf("daemon stopped")
	return nil
}

func (d *Daemon) writePIDFile() error {
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(d.cfg.PIDFilePath(), []byte(pid+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing pid file: %w", err)
	}
	return nil
}
