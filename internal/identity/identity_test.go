package identity

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masoncj/praisebot/internal/logging"
	"github.com/masoncj/praisebot/internal/models"
	"github.com/masoncj/praisebot/internal/praise"
)

const directoryYAML = `users:
  U024BE7LH:
    name: cmason
    full_name: Chris Mason
    icon_url: https://example.com/cmason.png
  UBOT:
    name: praisebot
channels:
  C01:
    name: general
    full_name: General Chat
`

func TestMain(m *testing.M) {
	logging.Disable()
	os.Exit(m.Run())
}

func TestLoadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(directoryYAML), 0o644))

	dir, err := LoadDirectory(path)
	require.NoError(t, err)

	user, err := dir.ResolveUser(context.Background(), "U024BE7LH")
	require.NoError(t, err)
	require.Equal(t, models.Identity{
		ID:          "U024BE7LH",
		DisplayName: "cmason",
		FullName:    "Chris Mason",
		IconURL:     "https://example.com/cmason.png",
	}, user)

	bot, err := dir.ResolveUser(context.Background(), "UBOT")
	require.NoError(t, err)
	require.Equal(t, "praisebot", bot.FullName)

	channel, err := dir.ResolveChannel(context.Background(), "C01")
	require.NoError(t, err)
	require.Equal(t, "General Chat", channel.FullName)
}

func TestDirectoryUnknownIdentity(t *testing.T) {
	dir, err := ParseDirectory([]byte(directoryYAML))
	require.NoError(t, err)

	_, err = dir.ResolveUser(context.Background(), "C01")
	require.True(t, errors.Is(err, praise.ErrUnknownIdentity))

	_, err = dir.ResolveChannel(context.Background(), "U024BE7LH")
	require.True(t, errors.Is(err, praise.ErrUnknownIdentity))
}

func TestDirectoryHonorsCancellation(t *testing.T) {
	dir, err := ParseDirectory([]byte(directoryYAML))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = dir.ResolveUser(ctx, "U024BE7LH")
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseDirectoryRejectsNameless(t *testing.T) {
	_, err := ParseDirectory([]byte("users:\n  U1:\n    full_name: Nobody\n"))
	require.Error(t, err)

	_, err = ParseDirectory([]byte("users: [1, 2]"))
	require.Error(t, err)
}

func TestLoadDirectoryMissingFile(t *testing.T) {
	_, err := LoadDirectory(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

type countingResolver struct {
	calls map[string]int
	known map[string]models.Identity
}

func (c *countingResolver) ResolveUser(ctx context.Context, id string) (models.Identity, error) {
	c.calls["user:"+id]++
	if ident, ok := c.known[id]; ok {
		return ident, nil
	}
	return models.Identity{}, praise.ErrUnknownIdentity
}

func (c *countingResolver) ResolveChannel(ctx context.Context, id string) (models.Identity, error) {
	c.calls["channel:"+id]++
	if ident, ok := c.known[id]; ok {
		return ident, nil
	}
	return models.Identity{}, praise.ErrUnknownIdentity
}

func TestCachedResolverCachesSuccesses(t *testing.T) {
	next := &countingResolver{
		calls: map[string]int{},
		known: map[string]models.Identity{"U1": {ID: "U1", DisplayName: "cmason"}},
	}
	cached, err := NewCachedResolver(next, 2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		ident, err := cached.ResolveUser(context.Background(), "U1")
		require.NoError(t, err)
		require.Equal(t, "cmason", ident.DisplayName)
	}
	require.Equal(t, 1, next.calls["user:U1"])

	// Users and channels are cached separately.
	_, err = cached.ResolveChannel(context.Background(), "U1")
	require.NoError(t, err)
	require.Equal(t, 1, next.calls["channel:U1"])
	require.Equal(t, 2, cached.Len())

	for i := 0; i < 2; i++ {
		_, err = cached.ResolveUser(context.Background(), "U404")
		require.ErrorIs(t, err, praise.ErrUnknownIdentity)
	}
	require.Equal(t, 2, next.calls["user:U404"])

	cached.Purge()
	require.Zero(t, cached.Len())
}

func TestCachedResolverEvicts(t *testing.T) {
	next := &countingResolver{
		calls: map[string]int{},
		known: map[string]models.Identity{
			"A": {ID: "A", DisplayName: "a"},
			"B": {ID: "B", DisplayName: "b"},
		},
	}
	cached, err := NewCachedResolver(next, 1)
	require.NoError(t, err)

	ctx := context.Background()
	_, _ = cached.ResolveUser(ctx, "A")
	_, _ = cached.ResolveUser(ctx, "B")
	_, _ = cached.ResolveUser(ctx, "A")
	require.Equal(t, 2, next.calls["user:A"])
	require.Equal(t, 1, cached.Len())
}

func TestNewCachedResolverRequiresNext(t *testing.T) {
	_, err := NewCachedResolver(nil, 10)
	require.Error(t, err)
}
