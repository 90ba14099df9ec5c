package daemon

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/summ-dev/summ/internal/config"
	"github.com/summ-dev/summ/internal/hooks"
	"github.com/summ-dev/summ/internal/ipc"
	"github.com/summ-dev/summ/internal/protocol"
	"github.com/summ-dev/summ/internal/session"
	"github.com/summ-dev/summ/internal/workspace"
)

// maxIDAttempts bounds session ID generation retries. IDs are random UUID
// prefixes, so a second attempt is already vanishingly rare.
const maxIDAttempts = 5

// Multiplexer is everything the handler needs from the tmux wrapper.
// *tmux.Tmux satisfies it; tests substitute doubles.
type Multiplexer interface {
	session.Multiplexer
	CheckAvailable() error
	NewSession(name, dir, command string) error
	KillSession(name string) error
	SendKeys(name, text string, pressEnter bool) error
	PipePane(name, logPath string) error
	ListSessionsWithPrefix(prefix string) ([]string, error)
}

// Handler processes one request per connection against the shared registry.
type Handler struct {
	cfg     *config.Config
	reg     *session.Registry
	mux     Multiplexer
	logger  *log.Logger
	version string
}

// NewHandler builds a request handler.
func NewHandler(cfg *config.Config, reg *session.Registry, mux Multiplexer, logger *log.Logger, version string) *Handler {
	return &Handler{cfg: cfg, reg: reg, mux: mux, logger: logger, version: version}
}

// HandleConn serves a single connection: one request, one response, close.
// A malformed request still gets a best-effort E007 response so the client
// is not left staring at a silent close.
func (h *Handler) HandleConn(conn net.Conn) {
	defer conn.Close()

	req, err := ipc.ReadRequest(conn)
	if err != nil {
		h.logger.Printf("failed to read request: %v", err)
		resp := protocol.ErrorResponse(protocol.Errf(protocol.CodeDaemonUnavailable, "reading request: %v", err))
		_ = ipc.WriteResponse(conn, &resp)
		return
	}

	resp := h.Handle(req)
	if err := ipc.WriteResponse(conn, &resp); err != nil {
		h.logger.Printf("failed to write response: %v", err)
	}
}

// Handle dispatches a request to its operation.
func (h *Handler) Handle(req *protocol.Request) protocol.Response {
	switch req.Type {
	case protocol.TypeStart:
		return h.handleStart(req)
	case protocol.TypeStop:
		return h.handleStop(req)
	case protocol.TypeList:
		return h.handleList(req)
	case protocol.TypeStatus:
		return h.handleStatus(req)
	case protocol.TypeInject:
		return h.handleInject(req)
	case protocol.TypeDaemonStatus:
		return h.handleDaemonStatus()
	}
	return protocol.ErrorResponse(protocol.Errf(protocol.CodeDaemonUnavailable,
		"unknown request type %q", req.Type))
}

func (h *Handler) handleStart(req *protocol.Request) protocol.Response {
	h.logger.Printf("start request: cli=%s init=%s", req.Cli, req.Init)

	// The CLI binary must resolve before anything is materialized. The cli
	// field may carry arguments ("claude --continue"); only the command
	// word has to be on PATH.
	cliWord := strings.Fields(req.Cli)
	if len(cliWord) == 0 {
		return protocol.ErrorResponse(protocol.Errf(protocol.CodeInvalidCli, "empty cli command"))
	}
	if _, err := exec.LookPath(cliWord[0]); err != nil {
		return protocol.ErrorResponse(protocol.Errf(protocol.CodeInvalidCli,
			"cli %q not found on PATH", cliWord[0]))
	}

	if _, err := os.Stat(req.Init); err != nil {
		return protocol.ErrorResponse(protocol.Errf(protocol.CodeInitSource,
			"initialization source not found: %s", req.Init))
	}

	var created *session.Session
	err := h.reg.Update(func(sessions map[string]*session.Session) error {
		id, err := h.freshID(sessions)
		if err != nil {
			return err
		}

		sess, err := h.createSession(id, req)
		if err != nil {
			return err
		}
		sessions[id] = sess
		created = sess
		return nil
	})
	if err != nil {
		h.logger.Printf("start failed: %v", err)
		return protocol.ErrorResponse(protocol.AsDaemonError(err))
	}

	h.logger.Printf("created session %s (%s)", created.SessionID, created.Cli)
	return protocol.Success(created)
}

// freshID picks a session ID colliding with neither the registry nor a
// leftover directory on disk.
func (h *Handler) freshID(sessions map[string]*session.Session) (string, error) {
	for range maxIDAttempts {
		id := session.GenerateID()
		if _, taken := sessions[id]; taken {
			continue
		}
		if _, err := os.Stat(h.cfg.SessionDir(id)); err == nil {
			continue
		}
		return id, nil
	}
	return "", protocol.Errf(protocol.CodeProcessStart, "could not allocate a unique session id")
}

// createSession materializes the workspace, wires hooks, and launches the
// CLI under tmux. Any failure tears the session directory down (and kills
// the tmux session if it got that far) so nothing half-built survives.
func (h *Handler) createSession(id string, req *protocol.Request) (*session.Session, error) {
	name := req.Name
	if name == "" {
		name = id
	}
	tmuxName := h.cfg.TmuxSessionName(id)
	sessionDir := h.cfg.SessionDir(id)
	workspaceDir := h.cfg.SessionWorkspacePath(id)
	runtimeDir := h.cfg.SessionRuntimePath(id)

	if err := workspace.CreateSessionDirs(sessionDir); err != nil {
		os.RemoveAll(sessionDir)
		return nil, protocol.Errf(protocol.CodeProcessStart, "creating session directories: %v", err)
	}

	if err := workspace.Materialize(workspaceDir, req.Init); err != nil {
		os.RemoveAll(sessionDir)
		if errors.Is(err, workspace.ErrUnsupportedSource) || errors.Is(err, workspace.ErrSourceNotFound) {
			return nil, protocol.Errf(protocol.CodeInitSource, "%v", err)
		}
		return nil, protocol.Errf(protocol.CodeArchiveExtraction, "materializing workspace: %v", err)
	}

	if err := hooks.Deploy(workspaceDir, req.Cli, id, runtimeDir); err != nil {
		os.RemoveAll(sessionDir)
		return nil, protocol.Errf(protocol.CodeProcessStart, "deploying hooks: %v", err)
	}

	if err := h.mux.NewSession(tmuxName, workspaceDir, req.Cli); err != nil {
		os.RemoveAll(sessionDir)
		return nil, protocol.Errf(protocol.CodeProcessStart, "launching cli: %v", err)
	}

	if err := h.mux.PipePane(tmuxName, h.cfg.SessionLogPath(id)); err != nil {
		// Losing the terminal log is not worth killing a live session over.
		h.logger.Printf("warning: session %s started without log capture: %v", id, err)
	}

	var pidPtr *int
	if pid, ok := h.mux.PanePID(tmuxName); ok {
		pidPtr = &pid
	}

	now := time.Now().UTC()
	sess := &session.Session{
		SessionID:    id,
		TmuxSession:  tmuxName,
		Name:         name,
		Cli:          req.Cli,
		Workdir:      sessionDir,
		InitSource:   req.Init,
		Status:       protocol.StatusRunning,
		PID:          pidPtr,
		CreatedAt:    now,
		LastActivity: now,
	}

	if err := sess.Save(); err != nil {
		if killErr := h.mux.KillSession(tmuxName); killErr != nil {
			h.logger.Printf("warning: failed to kill session %s during teardown: %v", tmuxName, killErr)
		}
		os.RemoveAll(sessionDir)
		return nil, protocol.Errf(protocol.CodeProcessStart, "persisting session: %v", err)
	}
	return sess, nil
}

func (h *Handler) handleStop(req *protocol.Request) protocol.Response {
	h.logger.Printf("stop request: session_id=%s", req.SessionID)

	err := h.reg.Update(func(sessions map[string]*session.Session) error {
		sess, ok := sessions[req.SessionID]
		if !ok {
			return protocol.Errf(protocol.CodeSessionNotFound, "session not found: %s", req.SessionID)
		}

		// Kill failures are warnings; the session may already be gone, and
		// stop is idempotent either way.
		if err := h.mux.KillSession(sess.TmuxSession); err != nil {
			h.logger.Printf("warning: failed to kill tmux session %s: %v", sess.TmuxSession, err)
		}

		sess.Status = protocol.StatusStopped
		sess.PID = nil
		if err := sess.Save(); err != nil {
			return fmt.Errorf("persisting stopped session: %w", err)
		}
		return nil
	})
	if err != nil {
		return protocol.ErrorResponse(protocol.AsDaemonError(err))
	}

	return protocol.Success(protocol.StopResult{
		SessionID: req.SessionID,
		Status:    protocol.StatusStopped,
	})
}

func (h *Handler) handleList(req *protocol.Request) protocol.Response {
	infos := make([]protocol.SessionInfo, 0)
	_ = h.reg.View(func(sessions map[string]*session.Session) error {
		now := time.Now().UTC()
		for _, sess := range sessions {
			if req.StatusFilter != "" {
				// Filtering goes by what the session is doing right now,
				// not by the last persisted status.
				if sess.EffectiveStatus(h.mux, now) != req.StatusFilter {
					continue
				}
			}
			infos = append(infos, sess.Info())
		}
		return nil
	})
	return protocol.Success(infos)
}

func (h *Handler) handleStatus(req *protocol.Request) protocol.Response {
	var detail protocol.StatusDetail
	err := h.reg.View(func(sessions map[string]*session.Session) error {
		sess, ok := sessions[req.SessionID]
		if !ok {
			return protocol.Errf(protocol.CodeSessionNotFound, "session not found: %s", req.SessionID)
		}
		detail = sess.Detail(sess.EffectiveStatus(h.mux, time.Now().UTC()))
		return nil
	})
	if err != nil {
		return protocol.ErrorResponse(protocol.AsDaemonError(err))
	}
	return protocol.Success(detail)
}

func (h *Handler) handleInject(req *protocol.Request) protocol.Response {
	h.logger.Printf("inject request: session_id=%s message_len=%d", req.SessionID, len(req.Message))

	err := h.reg.Update(func(sessions map[string]*session.Session) error {
		sess, ok := sessions[req.SessionID]
		if !ok {
			return protocol.Errf(protocol.CodeSessionNotFound, "session not found: %s", req.SessionID)
		}

		if sess.EffectiveStatus(h.mux, time.Now().UTC()) == protocol.StatusStopped {
			return protocol.Errf(protocol.CodeSessionStopped,
				"session %s is stopped, cannot inject message", req.SessionID)
		}

		if err := h.mux.SendKeys(sess.TmuxSession, req.Message, true); err != nil {
			return protocol.Errf(protocol.CodeMessageInjection, "injecting message: %v", err)
		}

		sess.LastActivity = time.Now().UTC()
		if err := sess.Save(); err != nil {
			h.logger.Printf("warning: failed to persist activity for %s: %v", req.SessionID, err)
		}
		return nil
	})
	if err != nil {
		return protocol.ErrorResponse(protocol.AsDaemonError(err))
	}

	return protocol.Success(protocol.InjectResult{
		SessionID: req.SessionID,
		Message:   "injected",
	})
}

func (h *Handler) handleDaemonStatus() protocol.Response {
	return protocol.Success(protocol.DaemonStatus{
		Running:      true,
		SessionCount: h.reg.Len(),
		Version:      h.version,
	})
}
