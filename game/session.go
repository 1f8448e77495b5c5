package game

import (
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/kaibot111/alien-shooter-multiplayer/logger"
)

const PING_INTERVAL = 30 * time.Second

type sessionState int

const (
	SESSION_UNBOUND sessionState = iota
	SESSION_BOUND
	SESSION_TERMINATED
)

// Session binds one websocket connection to at most one room/player pair.
// State and binding are only ever touched from the read pump goroutine, so
// they need no lock; the outbox is how every other goroutine reaches the
// connection.
type Session struct {
	playerID    string
	displayName string
	registry    *Registry
	conn        Conn
	outbox      chan ServerMessage
	limiter     *rate.Limiter

	state    sessionState
	roomCode string
}

func NewSession(playerID, displayName string, registry *Registry, conn Conn) *Session {
	return &Session{
		playerID:    playerID,
		displayName: displayName,
		registry:    registry,
		conn:        conn,
		outbox:      make(chan ServerMessage, OUTBOX_SIZE),
		limiter:     rate.NewLimiter(10, 20),
	}
}

// ReadPump consumes inbound messages until the transport dies, then prunes
// the player from their room.
func (s *Session) ReadPump() {
	defer s.terminate()

	for {
		data, err := s.conn.Read()
		if err != nil {
			return
		}
		if !s.limiter.Allow() {
			continue
		}
		s.dispatch(data)
	}
}

// WritePump drains the outbox into the socket and keeps the connection alive
// with pings. Exits when the outbox is closed or the socket errors.
func (s *Session) WritePump() {
	ping := time.NewTicker(PING_INTERVAL)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-s.outbox:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Criticalf("[Session %s] Failed to marshal %s message: %v", s.playerID, msg.Type, err)
				continue
			}
			if err := s.conn.Write(data); err != nil {
				return
			}
		case <-ping.C:
			if err := s.conn.Ping(); err != nil {
				return
			}
		}
	}
}

func (s *Session) dispatch(data []byte) {
	env, err := parseClientEnvelope(data)
	if err != nil {
		s.sendError(ErrBadRequestStr)
		return
	}

	switch env.Type {
	case MSG_CREATE_ROOM:
		s.handleCreateRoom(env.Payload)
	case MSG_JOIN_ROOM:
		s.handleJoinRoom(env.Payload)
	case MSG_SHOOT:
		s.handleShoot(env.Payload)
	default:
		logger.Debugf("[Session %s] Unknown message type %q", s.playerID, env.Type)
	}
}

func (s *Session) handleCreateRoom(raw json.RawMessage) {
	var payload createRoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.sendError(ErrBadRequestStr)
		return
	}
	if err := payload.validate(); err != nil {
		s.sendError(ErrBadRequestStr)
		return
	}
	if s.state != SESSION_UNBOUND {
		s.sendError(ErrAlreadyBoundStr)
		return
	}

	p := NewPlayer(s.playerID, s.playerName(payload.Name), s.outbox)
	s.roomCode = s.registry.CreateRoom(p)
	s.state = SESSION_BOUND
}

func (s *Session) handleJoinRoom(raw json.RawMessage) {
	var payload joinRoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.sendError(ErrBadRequestStr)
		return
	}
	if err := payload.validate(); err != nil {
		s.sendError(ErrBadRequestStr)
		return
	}
	if s.state != SESSION_UNBOUND {
		s.sendError(ErrAlreadyBoundStr)
		return
	}

	p := NewPlayer(s.playerID, s.playerName(payload.Name), s.outbox)
	if err := s.registry.JoinRoom(payload.RoomCode, p); err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			s.sendError(ErrRoomNotFoundStr)
		} else {
			s.sendError(ErrBadRequestStr)
		}
		return
	}
	s.roomCode = payload.RoomCode
	s.state = SESSION_BOUND
}

func (s *Session) handleShoot(raw json.RawMessage) {
	// The session's own binding decides which room the shot lands in, never
	// anything the client sends.
	if s.state != SESSION_BOUND {
		return
	}

	var payload shootPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.sendError(ErrBadRequestStr)
		return
	}
	if err := payload.validate(); err != nil {
		s.sendError(ErrBadRequestStr)
		return
	}

	s.registry.ResolveShot(s.roomCode, s.playerID, *payload.K)
}

func (s *Session) terminate() {
	if s.state == SESSION_BOUND {
		s.registry.RemovePlayer(s.roomCode, s.playerID)
	}
	s.state = SESSION_TERMINATED

	// RemovePlayer already unhooked the player from every broadcast path, so
	// nothing can send on the outbox anymore.
	close(s.outbox)
	s.conn.Close("")
	logger.Infof("[Session %s] Terminated", s.playerID)
}

func (s *Session) playerName(requested string) string {
	if requested != "" {
		return requested
	}
	return s.displayName
}

func (s *Session) sendError(message string) {
	select {
	case s.outbox <- errorMessage(message):
	default:
	}
}
