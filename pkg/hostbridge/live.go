package hostbridge

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/shellkit/pkg/routes"
)

// MessageType identifies live channel messages.
type MessageType string

const (
	// Client to server.
	MessageNavigate MessageType = "navigate"

	// Server to client.
	MessageTitle       MessageType = "title"
	MessageBreadcrumbs MessageType = "breadcrumbs"
	MessageHTML        MessageType = "html"
	MessageError       MessageType = "error"
)

// Message is one live channel frame.
type Message struct {
	Type        MessageType         `json:"type"`
	Path        string              `json:"path,omitempty"`
	Title       string              `json:"title,omitempty"`
	Breadcrumbs []routes.Breadcrumb `json:"breadcrumbs,omitempty"`
	HTML        string              `json:"html,omitempty"`
	Location    string              `json:"location,omitempty"`
	Error       string              `json:"error,omitempty"`
}

const writeWait = 10 * time.Second

// liveSession is one websocket connection and the shell it drives.
type liveSession struct {
	id     string
	server *Server
	conn   *websocket.Conn
	shell  *routes.Shell

	writeMu  sync.Mutex
	navMu    sync.Mutex
	navigate func(path string)

	closeOnce sync.Once
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	sess := &liveSession{
		id:     uuid.NewString(),
		server: s,
		conn:   conn,
	}
	sess.shell = s.newShell(routes.Host{
		SetPageTitle: func(title string) {
			sess.send(Message{Type: MessageTitle, Title: title})
		},
		SetBreadcrumbs: func(items []routes.Breadcrumb) {
			sess.send(Message{Type: MessageBreadcrumbs, Breadcrumbs: items})
		},
		SetNavigate: func(navigate func(path string)) {
			sess.navMu.Lock()
			sess.navigate = navigate
			sess.navMu.Unlock()
		},
	}, sess.id)
	sess.shell.Subscribe(func(routes.Chain) { sess.sendHTML() })
	sess.shell.OnUpdate(sess.sendHTML)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.logger.Info("live session opened", "session_id", sess.id)

	if path := r.URL.Query().Get("path"); path != "" {
		sess.navigateTo(path)
	}
	sess.readLoop()

	sess.close()
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	s.logger.Info("live session closed", "session_id", sess.id)
}

func (l *liveSession) readLoop() {
	for {
		var msg Message
		if err := l.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.server.logger.Warn("live session read failed", "session_id", l.id, "error", err)
			}
			return
		}

		switch msg.Type {
		case MessageNavigate:
			l.navigateTo(msg.Path)
		default:
			l.send(Message{Type: MessageError, Error: "unknown message type " + string(msg.Type)})
		}
	}
}

// navigateTo navigates through the function the shell exposed to its host.
func (l *liveSession) navigateTo(path string) {
	path, _, err := cleanNavPath(path)
	if err != nil {
		l.send(Message{Type: MessageError, Error: err.Error()})
		return
	}
	l.navMu.Lock()
	navigate := l.navigate
	l.navMu.Unlock()
	if navigate != nil {
		navigate(path)
	}
}

func (l *liveSession) sendHTML() {
	html, err := l.server.renderer.RenderToString(l.shell.Render(context.Background()))
	if err != nil {
		l.server.logger.Error("render failed", "session_id", l.id, "error", err)
		l.send(Message{Type: MessageError, Error: "render failed"})
		return
	}
	l.send(Message{Type: MessageHTML, HTML: html, Location: l.shell.Location()})
}

func (l *liveSession) send(msg Message) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	_ = l.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := l.conn.WriteJSON(msg); err != nil {
		l.server.logger.Debug("live session write failed", "session_id", l.id, "error", err)
	}
}

func (l *liveSession) close() {
	l.closeOnce.Do(func() {
		l.shell.Close()
		l.writeMu.Lock()
		_ = l.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		l.writeMu.Unlock()
		l.conn.Close()
	})
}
