package game

import (
	"time"

	"github.com/kaibot111/alien-shooter-multiplayer/logger"
)

// startRoundLocked generates a fresh puzzle, installs it as the room's
// current round and announces it. Caller holds the registry lock.
func (r *Registry) startRoundLocked(room *Room) {
	round := r.gen.Generate()
	room.Round = &round
	logger.Debugf("[Room %s] New round: alien (%d,%d), b=%d", room.Code, round.Target.X, round.Target.Y, round.Intercept)
	room.broadcast(newRoundMessage(round))
}

// scheduleNextRound arms the post-hit restart timer. The callback re-resolves
// the room by code instead of capturing it: if everyone disconnected during
// the delay the room is gone and the restart is a no-op.
func (r *Registry) scheduleNextRound(code string) {
	time.AfterFunc(r.cfg.RestartDelay, func() {
		r.locker.Lock()
		defer r.locker.Unlock()

		room, exists := r.rooms[code]
		if !exists {
			logger.Debugf("[Room %s] Vanished before the scheduled round, skipping", code)
			return
		}
		r.startRoundLocked(room)
	})
}
