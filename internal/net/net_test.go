package net

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"InkBoard/internal/codec"
	"InkBoard/internal/engine"
	"InkBoard/internal/state"
	"InkBoard/internal/strokes"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
	"github.com/hashicorp/mdns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(id uuid.UUID, n int) codec.Document {
	s := state.NewStore()
	for i := 0; i < n; i++ {
		x := float64(i * 100)
		s.Insert(strokes.NewShape(strokes.ShapeLine, gg.Pt(x, 0), gg.Pt(x+50, 50), strokes.DefaultStyle()))
	}
	return codec.New(id, engine.NewDocument(), s.TakeSnapshot())
}

func TestParseLink(t *testing.T) {
	addr, err := ParseLink("inkboard://192.168.1.4:8888/")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.4:8888", addr)
	assert.Equal(t, "inkboard://10.0.0.2:9000", ShareLink("10.0.0.2", 9000))

	_, err = ParseLink("http://192.168.1.4:8888")
	assert.ErrorIs(t, err, ErrBadLink)
	_, err = ParseLink("inkboard://nohost")
	assert.ErrorIs(t, err, ErrBadLink)
}

func TestFoundFromEntry(t *testing.T) {
	f, ok := found(&mdns.ServiceEntry{Name: "desk", AddrV4: net.IPv4(10, 0, 0, 7), Port: 8888})
	require.True(t, ok)
	assert.Equal(t, "10.0.0.7:8888", f.Addr)
	assert.Equal(t, "inkboard://10.0.0.7:8888", f.Link())

	_, ok = found(&mdns.ServiceEntry{Name: "v6only", Port: 8888})
	assert.False(t, ok)
	_, ok = found(nil)
	assert.False(t, ok)
}

func TestHubDeliversLatestAndUpdates(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	id := uuid.New()
	require.NoError(t, hub.Publish(doc(id, 1)))

	var mu sync.Mutex
	var got []codec.Document
	received := func(n int) func() bool {
		return func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(got) >= n
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- subscribeURL(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), func(d codec.Document) {
			mu.Lock()
			got = append(got, d)
			mu.Unlock()
		})
	}()

	require.Eventually(t, received(1), 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.Len())

	require.NoError(t, hub.Publish(doc(id, 3)))
	require.Eventually(t, received(2), 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, id, got[0].ID)
	assert.Len(t, got[0].Strokes, 1)
	assert.Len(t, got[1].Strokes, 3)
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber did not stop")
	}
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestSubscribeEndsWhenHostCloses(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	done := make(chan error, 1)
	go func() {
		done <- subscribeURL(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"), func(codec.Document) {})
	}()
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 5*time.Second, 10*time.Millisecond)

	hub.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}

func TestSubscribeRejectsBadLink(t *testing.T) {
	err := Subscribe(context.Background(), "localboard://1.2.3.4:8888", func(codec.Document) {})
	assert.ErrorIs(t, err, ErrBadLink)
}
