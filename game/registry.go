package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/kaibot111/alien-shooter-multiplayer/logger"
)

const ROOM_CODE_SPACE = 10000 // 4-digit numeric codes

// Config carries the tunables of a registry. Zero values fall back to the
// game's defaults.
type Config struct {
	// RestartDelay is the pause between a hit and the next round, so players
	// see the hit feedback before the alien moves.
	RestartDelay time.Duration

	// SlopeTolerance is the absolute error under which a guess counts as a
	// hit. Deliberately loose: players type decimal approximations.
	SlopeTolerance float64
}

func (c Config) withDefaults() Config {
	if c.RestartDelay == 0 {
		c.RestartDelay = 1500 * time.Millisecond
	}
	if c.SlopeTolerance == 0 {
		c.SlopeTolerance = 0.01
	}
	return c
}

// RoundGenerator produces the puzzle for a new round.
type RoundGenerator interface {
	Generate() Round
}

// Registry owns every live room. All room and player mutations funnel through
// its methods under one lock, so there is only ever one logical writer per
// room; nothing outside the registry holds a room across calls.
type Registry struct {
	locker sync.Mutex
	rooms  map[string]*Room
	gen    RoundGenerator
	cfg    Config
	rng    *rand.Rand
}

func NewRegistry(cfg Config, gen RoundGenerator, rng *rand.Rand) *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		gen:   gen,
		cfg:   cfg.withDefaults(),
		rng:   rng,
	}
}

// CreateRoom makes a room under a fresh code, seats the creator and starts
// the first round. Returns the room code.
func (r *Registry) CreateRoom(p *Player) string {
	r.locker.Lock()
	defer r.locker.Unlock()

	code := r.newCodeLocked()
	room := &Room{
		Code:    code,
		Players: map[string]*Player{p.ID: p},
	}
	r.rooms[code] = room

	logger.Infof("[Room %s] Created by %s (%s)", code, p.Name, p.ID)

	p.send(roomJoinedMessage(code))
	room.broadcast(updatePlayersMessage(room))
	r.startRoundLocked(room)
	return code
}

// JoinRoom seats a player in an existing room. The joiner immediately gets
// the active round so they can render the in-progress puzzle.
func (r *Registry) JoinRoom(code string, p *Player) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	room, exists := r.rooms[code]
	if !exists {
		return ErrRoomNotFound
	}

	room.Players[p.ID] = p
	logger.Infof("[Room %s] %s (%s) joined, %d players", code, p.Name, p.ID, len(room.Players))

	p.send(roomJoinedMessage(code))
	if room.Round != nil {
		p.send(newRoundMessage(*room.Round))
	}
	room.broadcast(updatePlayersMessage(room))
	return nil
}

// RemovePlayer drops a player from their room. The last player leaving tears
// the room down entirely; its code becomes reusable.
func (r *Registry) RemovePlayer(code, playerID string) {
	r.locker.Lock()
	defer r.locker.Unlock()

	room, exists := r.rooms[code]
	if !exists {
		return
	}
	if _, seated := room.Players[playerID]; !seated {
		return
	}

	delete(room.Players, playerID)

	if len(room.Players) == 0 {
		delete(r.rooms, code)
		logger.Infof("[Room %s] Empty, removed", code)
		return
	}

	logger.Infof("[Room %s] Player %s left, %d players remain", code, playerID, len(room.Players))
	room.broadcast(updatePlayersMessage(room))
}

// RoomCount reports the number of live rooms.
func (r *Registry) RoomCount() int {
	r.locker.Lock()
	defer r.locker.Unlock()
	return len(r.rooms)
}

// newCodeLocked draws 4-digit codes until one misses every live room.
// Uniqueness only holds among live rooms: a vacated room's code can come
// straight back.
func (r *Registry) newCodeLocked() string {
	for {
		code := fmt.Sprintf("%04d", r.rng.Intn(ROOM_CODE_SPACE))
		if _, taken := r.rooms[code]; !taken {
			return code
		}
	}
}
