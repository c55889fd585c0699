package net

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"InkBoard/internal/codec"
	"InkBoard/internal/logging"

	"github.com/gorilla/websocket"
)

// LinkScheme prefixes share links.
const LinkScheme = "inkboard://"

// DefaultPort is the port a shared board listens on.
const DefaultPort = 8888

const (
	boardPath    = "/board"
	sendBuffer   = 4
	writeTimeout = 10 * time.Second
)

// ErrBadLink is returned for links that are not share links.
var ErrBadLink = errors.New("not an inkboard link")

// ShareLink builds the link other hosts join with.
func ShareLink(host string, port int) string {
	return fmt.Sprintf("%s%s:%d", LinkScheme, host, port)
}

// ParseLink returns the host:port of a share link.
func ParseLink(link string) (string, error) {
	addr, ok := strings.CutPrefix(strings.TrimSpace(link), LinkScheme)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrBadLink, link)
	}
	addr = strings.TrimSuffix(addr, "/")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadLink, err)
	}
	return addr, nil
}

type peer struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub serves the shared board to connected viewers. Every viewer receives
// the latest published document on connect and each later publish.
type Hub struct {
	upgrader websocket.Upgrader

	mu     sync.Mutex
	peers  map[*peer]struct{}
	latest []byte
	closed bool
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		peers: make(map[*peer]struct{}),
	}
}

// Len is the number of connected viewers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// ServeHTTP upgrades the request and registers the viewer.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	p := &peer{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.peers[p] = struct{}{}
	if h.latest != nil {
		p.send <- h.latest
	}
	h.mu.Unlock()
	logging.Logger().Info("viewer connected", "remote", conn.RemoteAddr().String())

	go h.write(p)
	h.read(p)
}

func (h *Hub) write(p *peer) {
	for msg := range p.send {
		p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logging.Logger().Debug("write to viewer", "err", err)
			break
		}
	}
	p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	p.conn.Close()
}

// read discards incoming messages until the viewer goes away. Viewers are
// read only.
func (h *Hub) read(p *peer) {
	defer h.drop(p)
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Logger().Debug("viewer read", "err", err)
			}
			return
		}
	}
}

func (h *Hub) drop(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[p]; ok {
		delete(h.peers, p)
		close(p.send)
		logging.Logger().Info("viewer disconnected", "remote", p.conn.RemoteAddr().String())
	}
}

// Publish sends the document to every viewer. Viewers that fall behind are
// disconnected.
func (h *Hub) Publish(d codec.Document) error {
	var buf bytes.Buffer
	if err := codec.Encode(&buf, d); err != nil {
		return err
	}
	msg := buf.Bytes()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = msg
	for p := range h.peers {
		select {
		case p.send <- msg:
		default:
			logging.Logger().Warn("dropping slow viewer", "remote", p.conn.RemoteAddr().String())
			delete(h.peers, p)
			close(p.send)
		}
	}
	return nil
}

// Close disconnects all viewers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for p := range h.peers {
		delete(h.peers, p)
		close(p.send)
	}
}

// ListenAndServe serves the hub on port until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.Handle(boardPath, h)
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: writeTimeout}

	go func() {
		<-ctx.Done()
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logging.Logger().Info("sharing board", "port", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve on port %d: %w", port, err)
	}
	return nil
}

// Subscribe joins the board behind link and calls fn with every document
// the host publishes. It returns when ctx is done or the host goes away.
func Subscribe(ctx context.Context, link string, fn func(codec.Document)) error {
	addr, err := ParseLink(link)
	if err != nil {
		return err
	}
	return subscribeURL(ctx, "ws://"+addr+boardPath, fn)
}

func subscribeURL(ctx context.Context, url string, fn func(codec.Document)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("could not connect to %s: %w", url, err)
	}
	defer conn.Close()
	logging.Logger().Info("joined board", "url", url)

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read from host: %w", err)
		}
		d, err := codec.Decode(bytes.NewReader(msg))
		if err != nil {
			logging.Logger().Warn("ignoring undecodable board", "err", err)
			continue
		}
		fn(d)
	}
}
