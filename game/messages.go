package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// Client -> server message types.
const (
	MSG_CREATE_ROOM = "createRoom"
	MSG_JOIN_ROOM   = "joinRoom"
	MSG_SHOOT       = "shoot"
)

// Server -> client message types.
const (
	MSG_ROOM_JOINED    = "roomJoined"
	MSG_NEW_ROUND      = "newRound"
	MSG_UPDATE_PLAYERS = "updatePlayers"
	MSG_HIT            = "hit"
	MSG_MY_MISS        = "myMiss"
	MSG_GAME_OVER      = "gameOver"
	MSG_ERROR          = "error"
)

const MAX_NAME_LENGTH = 24

var errBadPayload = errors.New("malformed message payload")

type clientEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type createRoomPayload struct {
	Name string `json:"name"`
}

type joinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
}

type shootPayload struct {
	K *float64 `json:"k"`
}

func parseClientEnvelope(data []byte) (clientEnvelope, error) {
	var env clientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return clientEnvelope{}, fmt.Errorf("%w: %w", errBadPayload, err)
	}
	if env.Type == "" {
		return clientEnvelope{}, fmt.Errorf("%w: missing type", errBadPayload)
	}
	if len(env.Payload) == 0 {
		env.Payload = json.RawMessage("{}")
	}
	return env, nil
}

func (p createRoomPayload) validate() error {
	if utf8.RuneCountInString(p.Name) > MAX_NAME_LENGTH {
		return fmt.Errorf("%w: name too long", errBadPayload)
	}
	return nil
}

func (p joinRoomPayload) validate() error {
	if p.RoomCode == "" {
		return fmt.Errorf("%w: missing room code", errBadPayload)
	}
	if utf8.RuneCountInString(p.Name) > MAX_NAME_LENGTH {
		return fmt.Errorf("%w: name too long", errBadPayload)
	}
	return nil
}

func (p shootPayload) validate() error {
	if p.K == nil {
		return fmt.Errorf("%w: missing k", errBadPayload)
	}
	if math.IsNaN(*p.K) || math.IsInf(*p.K, 0) {
		return fmt.Errorf("%w: k not finite", errBadPayload)
	}
	return nil
}

// ServerMessage is a tagged outbound event, serialized as JSON on the wire.
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type PlayerInfo struct {
	Name  string `json:"name"`
	Lives int    `json:"lives"`
	Score int    `json:"score"`
}

type roomJoinedPayload struct {
	RoomCode string `json:"roomCode"`
}

type newRoundPayload struct {
	Alien Point `json:"alien"`
	B     int   `json:"b"`
}

type hitPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Alien      Point  `json:"alien"`
}

type myMissPayload struct {
	YourSlope    float64 `json:"yourSlope"`
	CorrectSlope float64 `json:"correctSlope"`
	Lives        int     `json:"lives"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func roomJoinedMessage(code string) ServerMessage {
	return ServerMessage{Type: MSG_ROOM_JOINED, Payload: roomJoinedPayload{RoomCode: code}}
}

// newRoundMessage carries the alien and the intercept, never the slope.
func newRoundMessage(round Round) ServerMessage {
	return ServerMessage{Type: MSG_NEW_ROUND, Payload: newRoundPayload{Alien: round.Target, B: round.Intercept}}
}

func updatePlayersMessage(room *Room) ServerMessage {
	return ServerMessage{Type: MSG_UPDATE_PLAYERS, Payload: room.roster()}
}

func hitMessage(p *Player, target Point) ServerMessage {
	return ServerMessage{Type: MSG_HIT, Payload: hitPayload{PlayerID: p.ID, PlayerName: p.Name, Alien: target}}
}

func myMissMessage(guess, correct float64, lives int) ServerMessage {
	return ServerMessage{Type: MSG_MY_MISS, Payload: myMissPayload{YourSlope: guess, CorrectSlope: correct, Lives: lives}}
}

func gameOverMessage() ServerMessage {
	return ServerMessage{Type: MSG_GAME_OVER}
}

func errorMessage(message string) ServerMessage {
	return ServerMessage{Type: MSG_ERROR, Payload: errorPayload{Message: message}}
}
