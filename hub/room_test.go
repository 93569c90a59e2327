package hub

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trudypainter/socket-friend/domain"
	"github.com/trudypainter/socket-friend/registry"
)

type mockConn struct {
	id       string
	received [][]byte
	mu       sync.Mutex
	sendErr  error
}

func (m *mockConn) ID() string { return m.id }

func (m *mockConn) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.received = append(m.received, data)
	return nil
}

func (m *mockConn) Close() error { return nil }

func (m *mockConn) getReceived() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.received
}

func join(t *testing.T, users *registry.Registry, id string) *mockConn {
	t.Helper()
	conn := &mockConn{id: id}
	_, err := users.Insert(id, conn, domain.Profile{})
	require.NoError(t, err)
	return conn
}

func TestRoom_BroadcastOthers(t *testing.T) {
	tests := []struct {
		name         string
		members      []string
		sender       string
		wantReceived map[string]int
	}{
		{
			name:         "sender excluded",
			members:      []string{"a", "b", "c"},
			sender:       "a",
			wantReceived: map[string]int{"a": 0, "b": 1, "c": 1},
		},
		{
			name:         "single member hears nothing",
			members:      []string{"a"},
			sender:       "a",
			wantReceived: map[string]int{"a": 0},
		},
		{
			name:         "two members",
			members:      []string{"a", "b"},
			sender:       "b",
			wantReceived: map[string]int{"a": 1, "b": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := registry.New()
			room := NewRoom("global", users)

			conns := make(map[string]*mockConn)
			for _, id := range tt.members {
				conns[id] = join(t, users, id)
			}

			room.BroadcastOthers(tt.sender, []byte("payload"))

			for id, want := range tt.wantReceived {
				assert.Len(t, conns[id].getReceived(), want, "member %s", id)
			}
		})
	}
}

func TestRoom_BroadcastAll(t *testing.T) {
	users := registry.New()
	room := NewRoom("global", users)

	a := join(t, users, "a")
	b := join(t, users, "b")

	payload := []byte(`{"type":"user:left"}`)
	room.BroadcastAll(payload)

	require.Len(t, a.getReceived(), 1)
	require.Len(t, b.getReceived(), 1)

	// Every recipient sees the identical bytes.
	assert.Equal(t, payload, a.getReceived()[0])
	assert.Equal(t, payload, b.getReceived()[0])
}

func TestRoom_SendTo(t *testing.T) {
	users := registry.New()
	room := NewRoom("global", users)

	a := join(t, users, "a")
	b := join(t, users, "b")

	room.SendTo("a", []byte("only for a"))

	assert.Len(t, a.getReceived(), 1)
	assert.Empty(t, b.getReceived())

	// Unknown recipient is a no-op.
	room.SendTo("nope", []byte("dropped"))
}

func TestRoom_SendErrorDoesNotStopFanout(t *testing.T) {
	users := registry.New()
	room := NewRoom("global", users)

	failing := &mockConn{id: "a", sendErr: assert.AnError}
	_, err := users.Insert("a", failing, domain.Profile{})
	require.NoError(t, err)
	b := join(t, users, "b")
	c := join(t, users, "c")

	room.BroadcastAll([]byte("payload"))

	assert.Len(t, b.getReceived(), 1)
	assert.Len(t, c.getReceived(), 1)
}

func TestRoom_Count(t *testing.T) {
	users := registry.New()
	room := NewRoom("global", users)

	assert.Equal(t, 0, room.Count())
	join(t, users, "a")
	join(t, users, "b")
	assert.Equal(t, 2, room.Count())

	users.Remove("a")
	assert.Equal(t, 1, room.Count())
}
