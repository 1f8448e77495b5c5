package game

import (
	"math"

	"github.com/kaibot111/alien-shooter-multiplayer/logger"
)

type ShotResult int

const (
	SHOT_IGNORED ShotResult = iota
	SHOT_HIT
	SHOT_MISS
)

// ResolveShot judges a player's slope guess against the room's active round.
// Shots from unknown or dead players, or with no round up, are ignored
// outright: the client UI should prevent them, so they are not errors.
func (r *Registry) ResolveShot(code, playerID string, guess float64) ShotResult {
	r.locker.Lock()
	defer r.locker.Unlock()

	room, exists := r.rooms[code]
	if !exists {
		return SHOT_IGNORED
	}
	p, seated := room.Players[playerID]
	if !seated || p.Lives == 0 || room.Round == nil {
		return SHOT_IGNORED
	}

	correct := room.Round.Slope()

	if math.Abs(correct-guess) < r.cfg.SlopeTolerance {
		p.Score++
		logger.Infof("[Room %s] %s hit the alien, score %d", code, p.Name, p.Score)

		room.broadcast(hitMessage(p, room.Round.Target))
		room.broadcast(updatePlayersMessage(room))
		r.scheduleNextRound(code)
		return SHOT_HIT
	}

	p.Lives--
	p.send(myMissMessage(guess, correct, p.Lives))
	room.broadcast(updatePlayersMessage(room))

	if p.Lives == 0 {
		// Exactly once: further shots hit the dead-player guard above. The
		// player stays in the roster until they disconnect.
		logger.Infof("[Room %s] %s is out of lives", code, p.Name)
		p.send(gameOverMessage())
	}
	return SHOT_MISS
}
