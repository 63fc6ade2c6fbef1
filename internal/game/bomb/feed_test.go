package bomb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/defuse/internal/game/bomb"
	"github.com/cory-johannsen/defuse/internal/game/module"
)

func TestFeed_PushAndDrain(t *testing.T) {
	f := bomb.NewFeed("test", 2, zap.NewNop())
	require.NoError(t, f.Push(module.Notification{Kind: module.NoteWireCut}))
	f.Notify(module.Notification{Kind: module.NoteGameOver, Won: true})

	assert.Equal(t, module.NoteWireCut, (<-f.Events()).Kind)
	n := <-f.Events()
	assert.Equal(t, module.NoteGameOver, n.Kind)
	assert.True(t, n.Won)
}

func TestFeed_FullBufferDropsAndLogs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := bomb.NewFeed("test", 1, zap.New(core))
	f.Notify(module.Notification{Kind: module.NoteWireCut})
	f.Notify(module.Notification{Kind: module.NoteButtonPressed})

	assert.Equal(t, 1, f.Dropped())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "dropping notification", logs.All()[0].Message)
}

func TestFeed_Close(t *testing.T) {
	f := bomb.NewFeed("test", 0, zap.NewNop())
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.True(t, f.IsClosed())
	assert.Error(t, f.Push(module.Notification{}))
	_, open := <-f.Events()
	assert.False(t, open)
}

func TestFanout(t *testing.T) {
	a, b := &collector{}, &collector{}
	bomb.Fanout(a, b).Notify(module.Notification{Kind: module.NoteSideSwapped})
	assert.Equal(t, 1, a.count(module.NoteSideSwapped))
	assert.Equal(t, 1, b.count(module.NoteSideSwapped))
}

func TestFailIndicator(t *testing.T) {
	f := bomb.NewFailIndicator(2)
	c := &collector{}
	assert.Equal(t, 1, f.Record(c.Notify))
	assert.False(t, f.Exhausted())
	assert.Equal(t, 2, f.Record(c.Notify))
	assert.True(t, f.Exhausted())
	assert.Equal(t, 2, f.Record(c.Notify))
	assert.Equal(t, 2, c.count(module.NoteStrikeRecorded))
}

func TestBombState_Swap(t *testing.T) {
	s := bomb.NewBombState()
	assert.Equal(t, module.Front, s.Side())
	assert.Equal(t, module.Back, s.Swap(module.Discard))
	assert.Equal(t, module.Front, s.Swap(module.Discard))
}
