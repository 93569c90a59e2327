package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trudypainter/socket-friend/domain"
)

type mockConn struct {
	id string
}

func (m *mockConn) ID() string             { return m.id }
func (m *mockConn) Send(data []byte) error { return nil }
func (m *mockConn) Close() error           { return nil }

func TestRegistry_InsertDefaults(t *testing.T) {
	tests := []struct {
		name            string
		id              string
		profile         domain.Profile
		wantUsername    string
		wantCursorColor string
	}{
		{
			name:            "all fields provided",
			id:              "abcdef123",
			profile:         domain.Profile{Username: "alice", CursorColor: "#ff0000", AvatarURL: "http://a/b.png"},
			wantUsername:    "alice",
			wantCursorColor: "#ff0000",
		},
		{
			name:            "empty profile gets defaults",
			id:              "abcdef123",
			profile:         domain.Profile{},
			wantUsername:    "User abcde",
			wantCursorColor: "#000000",
		},
		{
			name:            "short id name fallback",
			id:              "ab",
			profile:         domain.Profile{},
			wantUsername:    "User ab",
			wantCursorColor: "#000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()

			user, err := r.Insert(tt.id, &mockConn{id: tt.id}, tt.profile)
			require.NoError(t, err)

			assert.Equal(t, tt.id, user.ID)
			assert.Equal(t, tt.wantUsername, user.Username)
			assert.Equal(t, tt.wantCursorColor, user.CursorColor)
			assert.Equal(t, domain.DefaultMode, user.Mode)
			assert.False(t, user.ConnectedAt.IsZero())
			assert.Equal(t, 1, r.Count())
		})
	}
}

func TestRegistry_InsertDuplicate(t *testing.T) {
	r := New()

	_, err := r.Insert("u1", &mockConn{id: "u1"}, domain.Profile{})
	require.NoError(t, err)

	_, err = r.Insert("u1", &mockConn{id: "u1"}, domain.Profile{})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_UpdateMerge(t *testing.T) {
	tests := []struct {
		name    string
		partial domain.Profile
		want    domain.Profile
	}{
		{
			name:    "username only",
			partial: domain.Profile{Username: "bob"},
			want:    domain.Profile{Username: "bob", CursorColor: "#ff0000", AvatarURL: "http://a/b.png"},
		},
		{
			name:    "color only",
			partial: domain.Profile{CursorColor: "#00ff00"},
			want:    domain.Profile{Username: "alice", CursorColor: "#00ff00", AvatarURL: "http://a/b.png"},
		},
		{
			name:    "empty partial keeps everything",
			partial: domain.Profile{},
			want:    domain.Profile{Username: "alice", CursorColor: "#ff0000", AvatarURL: "http://a/b.png"},
		},
		{
			name:    "all fields replaced",
			partial: domain.Profile{Username: "carol", CursorColor: "#0000ff", AvatarURL: "http://c/d.png"},
			want:    domain.Profile{Username: "carol", CursorColor: "#0000ff", AvatarURL: "http://c/d.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			_, err := r.Insert("u1", &mockConn{id: "u1"}, domain.Profile{
				Username: "alice", CursorColor: "#ff0000", AvatarURL: "http://a/b.png",
			})
			require.NoError(t, err)

			user, ok := r.Update("u1", tt.partial)
			require.True(t, ok)

			assert.Equal(t, tt.want.Username, user.Username)
			assert.Equal(t, tt.want.CursorColor, user.CursorColor)
			assert.Equal(t, tt.want.AvatarURL, user.AvatarURL)
		})
	}
}

func TestRegistry_UpdateMissing(t *testing.T) {
	r := New()

	_, ok := r.Update("nope", domain.Profile{Username: "x"})
	assert.False(t, ok)
}

func TestRegistry_SetMode(t *testing.T) {
	r := New()
	_, err := r.Insert("u1", &mockConn{id: "u1"}, domain.Profile{})
	require.NoError(t, err)

	user, ok := r.SetMode("u1", "drawing")
	require.True(t, ok)
	assert.Equal(t, "drawing", user.Mode)

	got, ok := r.Get("u1")
	require.True(t, ok)
	assert.Equal(t, "drawing", got.Mode)

	_, ok = r.SetMode("nope", "drawing")
	assert.False(t, ok)
}

func TestRegistry_RemoveIdempotent(t *testing.T) {
	r := New()
	_, err := r.Insert("u1", &mockConn{id: "u1"}, domain.Profile{})
	require.NoError(t, err)

	assert.True(t, r.Remove("u1"))
	assert.False(t, r.Remove("u1"))
	assert.Equal(t, 0, r.Count())

	_, ok := r.Get("u1")
	assert.False(t, ok)
}

func TestRegistry_AllSnapshot(t *testing.T) {
	r := New()
	for _, id := range []string{"u1", "u2", "u3"} {
		_, err := r.Insert(id, &mockConn{id: id}, domain.Profile{})
		require.NoError(t, err)
	}

	snapshot := r.All()
	require.Len(t, snapshot, 3)

	// Removal after the snapshot must not change it.
	r.Remove("u2")
	assert.Len(t, snapshot, 3)

	ids := make(map[string]bool)
	for _, user := range snapshot {
		ids[user.ID] = true
	}
	assert.Equal(t, map[string]bool{"u1": true, "u2": true, "u3": true}, ids)

	assert.Len(t, r.All(), 2)
	assert.Equal(t, 2, r.Count())
}
