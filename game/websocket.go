package game

import (
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the subset of websocket behavior a session needs, so tests can
// stand in a double for the real socket.
type Conn interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Ping() error
	Close(reason string)
}

type WebsocketConnection struct {
	socket *websocket.Conn
}

func NewWebsocketConnection(conn *websocket.Conn) *WebsocketConnection {
	conn.SetReadDeadline(time.Now().Add(time.Minute))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(time.Minute))
		return nil
	})
	return &WebsocketConnection{socket: conn}
}

func (wc *WebsocketConnection) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

func (wc *WebsocketConnection) Write(data []byte) error {
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *WebsocketConnection) Ping() error {
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *WebsocketConnection) Close(reason string) {
	wc.socket.SetWriteDeadline(time.Now().Add(time.Second * 20))
	wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	wc.socket.Close()
}
