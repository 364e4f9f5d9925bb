package conversation

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buynlarge/console/internal/model/chat"
	"github.com/buynlarge/console/internal/service/notify"
	"github.com/buynlarge/console/internal/service/session"
	"github.com/buynlarge/console/internal/storage"
)

type fakeTransport struct {
	fetch func(ctx context.Context, sessionID string) []chat.Message
	send  func(ctx context.Context, text, sessionID string) (chat.Message, error)

	mu    sync.Mutex
	sends []string
}

func (f *fakeTransport) FetchHistory(ctx context.Context, sessionID string) []chat.Message {
	if f.fetch == nil {
		return nil
	}
	return f.fetch(ctx, sessionID)
}

func (f *fakeTransport) SendMessage(ctx context.Context, text, sessionID string) (chat.Message, error) {
	f.mu.Lock()
	f.sends = append(f.sends, text)
	f.mu.Unlock()
	return f.send(ctx, text, sessionID)
}

func replyWith(content string) func(context.Context, string, string) (chat.Message, error) {
	return func(context.Context, string, string) (chat.Message, error) {
		return chat.Message{ID: "srv-" + content, Content: content, Sender: chat.SenderBot, Timestamp: time.Now()}, nil
	}
}

func newTestState(t *testing.T, tr *fakeTransport, opts ...Option) (*State, *notify.Center) {
	t.Helper()
	center := notify.NewCenter(time.Minute)
	n := 0
	opts = append([]Option{WithIDs(func() string {
		n++
		return "local-" + strconv.Itoa(n)
	})}, opts...)
	return New(session.NewIdentity(storage.NewMemoryStore()), tr, center, opts...), center
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}

func TestMountWithHistoryUsesItVerbatim(t *testing.T) {
	history := []chat.Message{
		{ID: "1", Content: "hola", Sender: chat.SenderUser},
		{ID: "2", Content: "¡Hola!", Sender: chat.SenderBot},
		{ID: "3", Content: "precios", Sender: chat.SenderUser},
	}
	s, _ := newTestState(t, &fakeTransport{
		fetch: func(context.Context, string) []chat.Message { return history },
	})

	assert.Equal(t, PhaseLoading, s.Phase())
	s.Mount(context.Background())

	assert.Equal(t, PhaseReady, s.Phase())
	assert.Equal(t, history, s.Messages())
}

func TestMountWithoutHistoryGreets(t *testing.T) {
	s, _ := newTestState(t, &fakeTransport{})
	s.Mount(context.Background())

	got := s.Messages()
	require.Len(t, got, 1)
	assert.Equal(t, chat.SenderBot, got[0].Sender)
	assert.Equal(t, Greeting, got[0].Content)
	assert.NotEmpty(t, s.Snapshot().SessionID)
}

func TestSubmitAppendsUserAndBotMessages(t *testing.T) {
	tr := &fakeTransport{send: replyWith("Tenemos 4 laptops")}
	s, center := newTestState(t, tr)
	s.Mount(context.Background())

	require.NoError(t, s.Submit(context.Background(), "¿Cuántas laptops hay?"))

	got := s.Messages()
	require.Len(t, got, 3)
	assert.Equal(t, chat.SenderUser, got[1].Sender)
	assert.Equal(t, "¿Cuántas laptops hay?", got[1].Content)
	assert.Equal(t, chat.SenderBot, got[2].Sender)
	assert.Equal(t, "Tenemos 4 laptops", got[2].Content)
	assert.False(t, s.Sending())
	assert.Empty(t, center.All())

	last := s.Snapshot().LastSend
	require.NotNil(t, last)
	assert.Equal(t, SendDelivered, last.Status)
}

func TestSubmitFailureAppendsApologyAndNotifies(t *testing.T) {
	tr := &fakeTransport{send: func(context.Context, string, string) (chat.Message, error) {
		return chat.Message{}, errors.New("connection refused")
	}}
	s, center := newTestState(t, tr)
	s.Mount(context.Background())

	require.NoError(t, s.Submit(context.Background(), "hola"))

	got := s.Messages()
	require.Len(t, got, 3)
	assert.Equal(t, "hola", got[1].Content)
	assert.Equal(t, chat.SenderBot, got[2].Sender)
	assert.Equal(t, Apology, got[2].Content)
	assert.False(t, s.Sending())
	require.Len(t, center.All(), 1)
	assert.Equal(t, notify.LevelError, center.All()[0].Level)

	last := s.Snapshot().LastSend
	require.NotNil(t, last)
	assert.Equal(t, SendFailed, last.Status)
	assert.Equal(t, "connection refused", last.Err)

	// Submit is re-enabled after a failure.
	tr.send = replyWith("ok")
	require.NoError(t, s.Submit(context.Background(), "otra vez"))
	assert.Len(t, s.Messages(), 5)
}

func TestEachAwaitedSubmitAddsTwoMessages(t *testing.T) {
	calls := 0
	tr := &fakeTransport{send: func(ctx context.Context, text, sid string) (chat.Message, error) {
		calls++
		if calls%2 == 0 {
			return chat.Message{}, errors.New("flaky")
		}
		return replyWith("r")(ctx, text, sid)
	}}
	s, _ := newTestState(t, tr)
	s.Mount(context.Background())

	for i := 0; i < 6; i++ {
		before := len(s.Messages())
		require.NoError(t, s.Submit(context.Background(), "m"+strconv.Itoa(i)))
		assert.Equal(t, before+2, len(s.Messages()))
	}
}

func TestSecondSubmitWhileSendingIsRejected(t *testing.T) {
	release := make(chan struct{})
	tr := &fakeTransport{send: func(ctx context.Context, text, sid string) (chat.Message, error) {
		<-release
		return replyWith("listo")(ctx, text, sid)
	}}
	s, _ := newTestState(t, tr)
	s.Mount(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), "primero") }()
	waitFor(t, s.Sending)

	assert.ErrorIs(t, s.Submit(context.Background(), "segundo"), ErrSendInFlight)
	assert.Len(t, s.Messages(), 2)

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, s.Messages(), 3)
	assert.Equal(t, []string{"primero"}, tr.sends)
}

func TestSubmitRejectedInputs(t *testing.T) {
	s, _ := newTestState(t, &fakeTransport{send: replyWith("x")})

	assert.ErrorIs(t, s.Submit(context.Background(), "hola"), ErrNotReady)

	s.Mount(context.Background())
	assert.ErrorIs(t, s.Submit(context.Background(), "   "), ErrEmptyInput)
	assert.Len(t, s.Messages(), 1)
}

func TestStaleHistoryIsDiscardedAfterUnmount(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	tr := &fakeTransport{fetch: func(context.Context, string) []chat.Message {
		close(started)
		<-release
		return []chat.Message{{ID: "1", Content: "viejo", Sender: chat.SenderUser}}
	}}
	s, _ := newTestState(t, tr)

	done := make(chan struct{})
	go func() {
		s.Mount(context.Background())
		close(done)
	}()
	<-started
	s.Unmount()
	close(release)
	<-done

	assert.Empty(t, s.Messages())
	assert.Equal(t, PhaseLoading, s.Phase())
	assert.ErrorIs(t, s.Submit(context.Background(), "hola"), ErrNotReady)
}

func TestRemountWinsOverEarlierFetch(t *testing.T) {
	first := make(chan struct{})
	var calls int
	var mu sync.Mutex
	tr := &fakeTransport{fetch: func(context.Context, string) []chat.Message {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			<-first
			return []chat.Message{{ID: "old", Content: "old"}}
		}
		return []chat.Message{{ID: "new", Content: "new"}}
	}}
	s, _ := newTestState(t, tr)

	done := make(chan struct{})
	go func() {
		s.Mount(context.Background())
		close(done)
	}()
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	})

	s.Mount(context.Background())
	close(first)
	<-done

	got := s.Messages()
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)
}

func TestReplyAfterUnmountIsDropped(t *testing.T) {
	release := make(chan struct{})
	tr := &fakeTransport{send: func(ctx context.Context, text, sid string) (chat.Message, error) {
		<-release
		return chat.Message{}, errors.New("late failure")
	}}
	s, center := newTestState(t, tr)
	s.Mount(context.Background())

	done := make(chan struct{})
	go func() {
		s.Submit(context.Background(), "hola")
		close(done)
	}()
	waitFor(t, s.Sending)
	s.Unmount()
	close(release)
	<-done

	assert.Len(t, s.Messages(), 2)
	assert.Empty(t, center.All())
}

func TestOnNewMessageHook(t *testing.T) {
	var seen []chat.Sender
	s, _ := newTestState(t, &fakeTransport{send: replyWith("ok")}, WithOnNewMessage(func(m chat.Message) {
		seen = append(seen, m.Sender)
	}))
	s.Mount(context.Background())
	require.NoError(t, s.Submit(context.Background(), "hola"))

	assert.Equal(t, []chat.Sender{chat.SenderUser, chat.SenderBot}, seen)
}

func TestSubscribeSeesSendingTransitions(t *testing.T) {
	s, _ := newTestState(t, &fakeTransport{send: replyWith("ok")})
	s.Mount(context.Background())

	var mu sync.Mutex
	var sending []bool
	cancel := s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		sending = append(sending, snap.Sending)
		mu.Unlock()
	})
	defer cancel()

	require.NoError(t, s.Submit(context.Background(), "hola"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, sending)
}

func TestResetStartsFreshConversation(t *testing.T) {
	var sessions []string
	tr := &fakeTransport{
		fetch: func(_ context.Context, sid string) []chat.Message {
			sessions = append(sessions, sid)
			return nil
		},
		send: replyWith("ok"),
	}
	s, _ := newTestState(t, tr)
	s.Mount(context.Background())
	require.NoError(t, s.Submit(context.Background(), "hola"))

	require.NoError(t, s.Reset(context.Background()))

	require.Len(t, sessions, 2)
	assert.NotEqual(t, sessions[0], sessions[1])
	assert.Len(t, s.Messages(), 1)
}
