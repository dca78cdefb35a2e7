package notify

import (
	"encoding/json"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// MessageType identifies a server push notification.
type MessageType string

const (
	TypeNewComment  MessageType = "NEW_COMMENT"
	TypeLikePost    MessageType = "LIKE_POST"
	TypeLikeComment MessageType = "LIKE_COMMENT"
)

// Message is the wire shape of a push notification.
type Message struct {
	Type MessageType `json:"type"`
}

// Listener receives each notification for a watched post.
type Listener func(MessageType)

// Service maintains one WebSocket connection per watched post against the
// backend's /ws endpoint and relays incoming messages to the registered
// listener. Connecting twice to the same post is a no-op.
type Service struct {
	baseURL string
	dialer  *websocket.Dialer
	log     zerolog.Logger

	lock  sync.Mutex
	conns map[string]*websocket.Conn
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithDialer replaces the default websocket dialer.
func WithDialer(dialer *websocket.Dialer) Option {
	return func(s *Service) {
		s.dialer = dialer
	}
}

// New creates a relay for the given ws:// or wss:// base URL.
func New(baseURL string, options ...Option) *Service {
	s := &Service{
		baseURL: baseURL,
		dialer:  websocket.DefaultDialer,
		log:     zerolog.Nop(),
		conns:   make(map[string]*websocket.Conn),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Connect starts watching a post. The listener is invoked from the read
// goroutine for every decoded message; undecodable frames are logged and
// skipped. The connection is dropped from the set when the peer closes it.
func (s *Service) Connect(postID string, listener Listener) error {
	s.lock.Lock()
	if _, ok := s.conns[postID]; ok {
		s.lock.Unlock()
		return nil
	}
	s.lock.Unlock()

	target, err := url.Parse(s.baseURL)
	if err != nil {
		return errors.Wrap(err, "[Service.Connect] parse base URL")
	}
	target.Path = "/ws"
	query := url.Values{}
	query.Set("postId", postID)
	target.RawQuery = query.Encode()

	conn, _, err := s.dialer.Dial(target.String(), nil)
	if err != nil {
		return errors.Wrap(err, "[Service.Connect] dial")
	}

	s.lock.Lock()
	// another caller may have connected while we were dialing
	if _, ok := s.conns[postID]; ok {
		s.lock.Unlock()
		_ = conn.Close()
		return nil
	}
	s.conns[postID] = conn
	s.lock.Unlock()

	go s.readLoop(postID, conn, listener)
	return nil
}

// Disconnect stops watching a post.
func (s *Service) Disconnect(postID string) {
	s.lock.Lock()
	conn, ok := s.conns[postID]
	if ok {
		delete(s.conns, postID)
	}
	s.lock.Unlock()

	if ok {
		_ = conn.Close()
	}
}

// Close drops every connection.
func (s *Service) Close() {
	s.lock.Lock()
	conns := s.conns
	s.conns = make(map[string]*websocket.Conn)
	s.lock.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}

// Watching reports whether a post currently has a live connection.
func (s *Service) Watching(postID string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	_, ok := s.conns[postID]
	return ok
}

func (s *Service) readLoop(postID string, conn *websocket.Conn, listener Listener) {
	defer func() {
		s.lock.Lock()
		if current, ok := s.conns[postID]; ok && current == conn {
			delete(s.conns, postID)
		}
		s.lock.Unlock()
		_ = conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			s.log.Debug().Err(err).Str("postId", postID).Msg("websocket closed")
			return
		}

		var message Message
		if err := json.Unmarshal(raw, &message); err != nil {
			s.log.Warn().Err(err).Str("postId", postID).Msg("undecodable websocket frame")
			continue
		}
		listener(message.Type)
	}
}
