package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lounge-chat/lounge/src/hub"
	"github.com/lounge-chat/lounge/src/store"
	"github.com/lounge-chat/lounge/src/types"
)

// nopConn satisfies types.Conn; delivery is observed on the client's send
// channel instead.
type nopConn struct{ closedCh chan struct{} }

func newNopConn() *nopConn { return &nopConn{closedCh: make(chan struct{})} }

func (n *nopConn) WriteJSON(any) error { return nil }
func (n *nopConn) ReadJSON(any) error  { <-n.closedCh; return errors.New("closed") }
func (n *nopConn) Close() error        { return nil }

type failingStore struct{ err error }

func (f *failingStore) Append(context.Context, string, string) (store.Message, error) {
	return store.Message{}, f.err
}

func (f *failingStore) ListRecent(context.Context, int) ([]store.Message, error) {
	return nil, f.err
}

func (f *failingStore) DeleteByID(context.Context, string) (bool, error) {
	return false, f.err
}

func (f *failingStore) Close() error { return nil }

func newTestService(t *testing.T, st store.MessageStore, limit int) (*Service, *hub.Hub) {
	t.Helper()
	h := hub.New(st, zerolog.Nop())
	go h.Run()
	t.Cleanup(h.Stop)
	return New(h, st, limit, zerolog.Nop()), h
}

func registerClient(t *testing.T, h *hub.Hub, id string) *hub.Client {
	t.Helper()
	client := hub.NewClient(id, newNopConn(), h)
	h.Register(client)
	time.Sleep(20 * time.Millisecond)
	return client
}

func awaitEvent(t *testing.T, client *hub.Client) types.Outbound {
	t.Helper()
	select {
	case evt := <-client.Send:
		return evt
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return types.Outbound{}
	}
}

func TestPostMessagePersistsAndBroadcasts(t *testing.T) {
	svc, h := newTestService(t, store.NewMemory(), 100)
	client := registerClient(t, h, "c1")

	// Discard the connection acknowledgement.
	evt := awaitEvent(t, client)
	require.Equal(t, types.EventConnectionResponse, evt.Event)

	msg, err := svc.PostMessage(context.Background(), "alice", "hi")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "alice", msg.Username)
	_, err = time.Parse(time.RFC3339Nano, msg.Timestamp)
	require.NoError(t, err)

	evt = awaitEvent(t, client)
	assert.Equal(t, types.EventNewMessage, evt.Event)
	assert.Equal(t, msg.ID, evt.Data["id"])
	assert.Equal(t, "hi", evt.Data["message"])
}

func TestPostMessageDefaultsUsername(t *testing.T) {
	svc, _ := newTestService(t, store.NewMemory(), 100)

	msg, err := svc.PostMessage(context.Background(), "", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", msg.Username)
}

func TestPostMessageStoreFailure(t *testing.T) {
	svc, h := newTestService(t, &failingStore{err: errors.New("store unreachable")}, 100)
	client := registerClient(t, h, "c1")
	awaitEvent(t, client) // connection acknowledgement

	_, err := svc.PostMessage(context.Background(), "alice", "hi")
	require.Error(t, err)

	select {
	case evt := <-client.Send:
		t.Fatalf("unexpected broadcast after store failure: %s", evt.Event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestListMessagesHonorsLimit(t *testing.T) {
	st := store.NewMemory()
	svc, _ := newTestService(t, st, 2)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		_, err := st.Append(ctx, "alice", text)
		require.NoError(t, err)
	}

	msgs, err := svc.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Message)
	assert.Equal(t, "two", msgs[1].Message)
}
