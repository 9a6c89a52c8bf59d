package system

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/julianstephens/pausa/internal/agent"
	"github.com/julianstephens/pausa/internal/cli"
	"github.com/julianstephens/pausa/internal/constants"
	"github.com/julianstephens/pausa/internal/logger"
	"github.com/julianstephens/pausa/internal/notifier"
)

const shutdownTimeout = 5 * time.Second

var engineLockDirFunc = notifier.GetTrayAppConfigDir

type RunCmd struct {
	Listen string `help:"Address for the agent endpoint. Overrides agent.listen in the runtime config."`
}

func (c *RunCmd) Run(ctx *cli.Context) error {
	ctx.AutoBackup()
	rt := ctx.NewRuntime(nil)
	if !rt.Engine.RequestNotificationPermission() {
		logger.Warn("pausa-tray is not running, breaks will only be logged")
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *agentServer
	if ctx.Config == nil || ctx.Config.Agent.Enabled {
		listen := c.Listen
		if listen == "" && ctx.Config != nil {
			listen = ctx.Config.Agent.Listen
		}
		var err error
		srv, err = startAgentServer(listen, rt.Engine, ctx.Clock())
		if err != nil {
			_ = rt.Close()
			return err
		}
	}

	wait := rt.Start(runCtx)

	resume := make(chan os.Signal, 1)
	if sigs := resumeSignals(); len(sigs) > 0 {
		signal.Notify(resume, sigs...)
		defer signal.Stop(resume)
	}

	logger.Info("Engine running", "store", ctx.Store.GetConfigPath())
	fmt.Println("pausa is running. Press Ctrl+C to stop.")

loop:
	for {
		select {
		case <-runCtx.Done():
			break loop
		case <-resume:
			logger.Debug("Process continued, resuming")
			rt.Scheduler.Resume()
		}
	}

	if srv != nil {
		srv.close()
	}
	if err := wait(); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	logger.Info("Engine stopped")
	return nil
}

type agentServer struct {
	http     *http.Server
	lockPath string
}

// startAgentServer listens on addr and publishes the port and secret in the
// engine lockfile.
func startAgentServer(addr string, r agent.Receiver, now func() time.Time) (*agentServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	tcp, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		ln.Close()
		return nil, fmt.Errorf("unexpected listener address %s", ln.Addr())
	}
	lock := notifier.NewLockfile(tcp.Port)

	dir, err := engineLockDirFunc()
	if err != nil {
		ln.Close()
		return nil, err
	}
	lockPath := filepath.Join(dir, constants.EngineLockfileName)
	if err := notifier.WriteLockfile(lockPath, lock); err != nil {
		ln.Close()
		return nil, err
	}

	handler := agent.NewHandler(r, lock.Secret, now)
	srv := &http.Server{Handler: handler.Mux(), ReadHeaderTimeout: shutdownTimeout}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Agent endpoint stopped", "error", err)
		}
	}()

	logger.Info("Agent endpoint listening", "addr", ln.Addr().String(), "lockfile", lockPath)
	return &agentServer{http: srv, lockPath: lockPath}, nil
}

func (s *agentServer) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		logger.Warn("Failed to stop agent endpoint", "error", err)
	}
	if err := notifier.RemoveLockfile(s.lockPath); err != nil {
		logger.Warn("Failed to remove lockfile", "path", s.lockPath, "error", err)
	}
}
