package game

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupSession(t *testing.T) (*Session, *Registry) {
	reg, _ := setupRegistry(t)
	conn := &MockConn{}
	conn.On("Close", mock.Anything).Return()
	return NewSession("p1", "alice", reg, conn), reg
}

func expectError(t *testing.T, s *Session, want string) {
	t.Helper()
	select {
	case msg := <-s.outbox:
		require.Equal(t, MSG_ERROR, msg.Type)
		assert.Equal(t, errorPayload{Message: want}, msg.Payload)
	default:
		t.Fatalf("expected %q error on the outbox", want)
	}
}

func drainSession(s *Session) []ServerMessage {
	return drain(s.outbox)
}

func TestSession_CreateRoomBinds(t *testing.T) {
	s, reg := setupSession(t)

	s.dispatch([]byte(`{"type":"createRoom","payload":{"name":"sharpshooter"}}`))

	assert.Equal(t, SESSION_BOUND, s.state)
	assert.NotEmpty(t, s.roomCode)
	assert.Equal(t, 1, reg.RoomCount())

	types := messageTypes(drainSession(s))
	assert.Equal(t, []string{MSG_ROOM_JOINED, MSG_UPDATE_PLAYERS, MSG_NEW_ROUND}, types)
}

func TestSession_SecondBindRejected(t *testing.T) {
	s, reg := setupSession(t)
	s.dispatch([]byte(`{"type":"createRoom","payload":{}}`))
	drainSession(s)

	s.dispatch([]byte(`{"type":"createRoom","payload":{}}`))
	expectError(t, s, ErrAlreadyBoundStr)

	s.dispatch([]byte(`{"type":"joinRoom","payload":{"roomCode":"1234"}}`))
	expectError(t, s, ErrAlreadyBoundStr)

	assert.Equal(t, 1, reg.RoomCount())
}

func TestSession_BindFallsBackToTokenName(t *testing.T) {
	s, reg := setupSession(t)

	s.dispatch([]byte(`{"type":"createRoom","payload":{}}`))

	msgs := drainSession(s)
	require.Len(t, msgs, 3)
	roster := msgs[1].Payload.(map[string]PlayerInfo)
	assert.Equal(t, "alice", roster["p1"].Name)
	assert.Equal(t, 1, reg.RoomCount())
}

func TestSession_JoinUnknownRoom(t *testing.T) {
	s, _ := setupSession(t)

	s.dispatch([]byte(`{"type":"joinRoom","payload":{"roomCode":"0000","name":"bob"}}`))

	expectError(t, s, ErrRoomNotFoundStr)
	assert.Equal(t, SESSION_UNBOUND, s.state)
}

func TestSession_ShootWhileUnboundDropped(t *testing.T) {
	s, _ := setupSession(t)

	s.dispatch([]byte(`{"type":"shoot","payload":{"k":1.0}}`))

	assert.Empty(t, drainSession(s))
	assert.Equal(t, SESSION_UNBOUND, s.state)
}

func TestSession_ShootUsesOwnBinding(t *testing.T) {
	s, reg := setupSession(t)
	s.dispatch([]byte(`{"type":"createRoom","payload":{}}`))
	drainSession(s)

	s.dispatch([]byte(`{"type":"shoot","payload":{"k":1.0}}`))

	msgs := drainSession(s)
	require.NotEmpty(t, msgs)
	assert.Equal(t, MSG_HIT, msgs[0].Type)
	assert.Equal(t, 1, reg.RoomCount())
}

func TestSession_MalformedMessages(t *testing.T) {
	s, _ := setupSession(t)

	s.dispatch([]byte(`not json`))
	expectError(t, s, ErrBadRequestStr)

	s.dispatch([]byte(`{"payload":{}}`))
	expectError(t, s, ErrBadRequestStr)

	s.dispatch([]byte(`{"type":"createRoom","payload":{"name":"this display name is way past the length limit"}}`))
	expectError(t, s, ErrBadRequestStr)

	// Unknown types are dropped without a reply.
	s.dispatch([]byte(`{"type":"teleport","payload":{}}`))
	assert.Empty(t, drainSession(s))
}

func TestSession_ShootMissingK(t *testing.T) {
	s, _ := setupSession(t)
	s.dispatch([]byte(`{"type":"createRoom","payload":{}}`))
	drainSession(s)

	s.dispatch([]byte(`{"type":"shoot","payload":{}}`))
	expectError(t, s, ErrBadRequestStr)
}

func TestSession_ReadPumpTerminatesAndPrunes(t *testing.T) {
	reg, _ := setupRegistry(t)
	conn := &MockConn{}
	conn.On("Read").Return([]byte(`{"type":"createRoom","payload":{}}`), nil).Once()
	conn.On("Read").Return(nil, errors.New("peer went away"))
	conn.On("Close", mock.Anything).Return()

	s := NewSession("p1", "alice", reg, conn)
	done := make(chan struct{})
	go func() {
		s.ReadPump()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("read pump did not exit on transport error")
	}

	assert.Zero(t, reg.RoomCount(), "last player's disconnect tears the room down")
	conn.AssertCalled(t, "Close", "")

	// Terminate closed the outbox, which stops the write pump.
	_, open := <-s.outbox
	for open {
		_, open = <-s.outbox
	}
}

func TestSession_WritePumpWritesJSON(t *testing.T) {
	reg, _ := setupRegistry(t)
	conn := &MockConn{}
	var written [][]byte
	conn.On("Write", mock.Anything).Run(func(args mock.Arguments) {
		written = append(written, args.Get(0).([]byte))
	}).Return(nil)

	s := NewSession("p1", "alice", reg, conn)
	s.outbox <- roomJoinedMessage("1234")
	close(s.outbox)

	s.WritePump()

	require.Len(t, written, 1)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(written[0], &decoded))
	assert.Equal(t, MSG_ROOM_JOINED, decoded["type"])
}

func TestSession_WritePumpStopsOnWriteError(t *testing.T) {
	reg, _ := setupRegistry(t)
	conn := &MockConn{}
	conn.On("Write", mock.Anything).Return(errors.New("broken pipe"))

	s := NewSession("p1", "alice", reg, conn)
	s.outbox <- gameOverMessage()

	done := make(chan struct{})
	go func() {
		s.WritePump()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write pump did not exit on write error")
	}
	conn.AssertNumberOfCalls(t, "Write", 1)
}
