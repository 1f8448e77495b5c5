package game

import (
	"github.com/stretchr/testify/mock"
)

// --- RoundGenerator ---

type MockRoundGenerator struct {
	mock.Mock
}

func (m *MockRoundGenerator) Generate() Round {
	args := m.Called()
	return args.Get(0).(Round)
}

// --- Conn ---

type MockConn struct {
	mock.Mock
}

func (m *MockConn) Read() ([]byte, error) {
	args := m.Called()
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockConn) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockConn) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockConn) Close(reason string) {
	m.Called(reason)
}
