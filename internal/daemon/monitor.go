package daemon

import (
	"context"
	"time"

	"github.com/summ-dev/summ/internal/protocol"
	"github.com/summ-dev/summ/internal/session"
)

// monitor re-derives every session's status on a fixed interval, healing the
// registry and meta.json after crashes, manual tmux kills, and hook events.
// Errors never leave this loop; a session that cannot be checked is checked
// again next tick.
func (d *Daemon) monitor(ctx context.Context) {
	ticker := time.NewTicker(d.monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.sweep(time.Now().UTC())
		}
	}
}

// sweep is one monitor pass over the registry.
func (d *Daemon) sweep(now time.Time) {
	_ = d.reg.Update(func(sessions map[string]*session.Session) error {
		changes := 0
		for id, sess := range sessions {
			effective := sess.EffectiveStatus(d.mux, now)

			if effective != sess.Status {
				d.logger.Printf("session %s status changed: %s -> %s", id, sess.Status, effective)
				sess.Status = effective
				sess.PID = nil
				if effective != protocol.StatusStopped {
					if pid, ok := d.mux.PanePID(sess.TmuxSession); ok {
						sess.PID = &pid
					}
				}
				if err := sess.Save(); err != nil {
					d.logger.Printf("warning: failed to persist session %s: %v", id, err)
				}
				changes++
			}

			if sess.Status != protocol.StatusStopped {
				sess.LastActivity = now
			}
		}
		if changes > 0 {
			d.logger.Printf("monitor pass applied %d status updates", changes)
		}
		return nil
	})
}
