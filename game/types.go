package game

const STARTING_LIVES = 3
const OUTBOX_SIZE = 64

// Point is a lattice point on the play grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Round is one puzzle: the alien sits on the line y = slope*x + b where b is
// the intercept and the slope is never sent to clients. Immutable once created.
type Round struct {
	Target    Point
	Intercept int
}

// Slope derives the true slope of the round's line. The generator never
// produces a target on the y axis, so the division is always defined.
func (r Round) Slope() float64 {
	if r.Target.X == 0 {
		panic("round target on the y axis, generator invariant broken")
	}
	return float64(r.Target.Y-r.Intercept) / float64(r.Target.X)
}

type Player struct {
	ID    string
	Name  string
	Lives int
	Score int

	outbox chan<- ServerMessage
}

// NewPlayer creates a player ready to join a room. The outbox is owned by the
// player's session, which drains it into the websocket.
func NewPlayer(id, name string, outbox chan<- ServerMessage) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Lives:  STARTING_LIVES,
		outbox: outbox,
	}
}

// send enqueues a message for this player without blocking. A full outbox
// means the session's write pump is dead or drowning; dropping is fine since
// the next roster broadcast carries full state anyway.
func (p *Player) send(msg ServerMessage) {
	select {
	case p.outbox <- msg:
	default:
	}
}

type Room struct {
	Code    string
	Players map[string]*Player
	Round   *Round
}

func (room *Room) broadcast(msg ServerMessage) {
	for _, p := range room.Players {
		p.send(msg)
	}
}

func (room *Room) roster() map[string]PlayerInfo {
	roster := make(map[string]PlayerInfo, len(room.Players))
	for id, p := range room.Players {
		roster[id] = PlayerInfo{Name: p.Name, Lives: p.Lives, Score: p.Score}
	}
	return roster
}
