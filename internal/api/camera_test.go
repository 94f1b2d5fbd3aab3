package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCameraServer serves frames over a websocket then closes normally.
// With hold set it keeps the socket open after the last frame.
func newCameraServer(t *testing.T, frames []string, hold bool) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		if hold {
			// block until the client goes away
			_, _, _ = conn.ReadMessage()
			return
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestCameraDialerReadsFrames(t *testing.T) {
	url := newCameraServer(t, []string{"frame-1", "frame-2"}, false)
	d := NewCameraDialer(url)
	assert.Equal(t, url, d.URL())

	ctx := context.Background()
	conn, err := d.Connect(ctx)
	require.NoError(t, err)
	defer conn.Close()

	frame, err := conn.ReadFrame(ctx)
	require.NoError(t, err)
	assert.Equal(t, "frame-1", string(frame))

	frame, err = conn.ReadFrame(ctx)
	require.NoError(t, err)
	assert.Equal(t, "frame-2", string(frame))

	_, err = conn.ReadFrame(ctx)
	assert.ErrorIs(t, err, ErrCameraClosed)
}

func TestCameraDialerCancelledRead(t *testing.T) {
	url := newCameraServer(t, nil, true)

	conn, err := NewCameraDialer(url).Connect(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = conn.ReadFrame(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.False(t, errors.Is(err, ErrCameraClosed))
}

func TestCameraDialerConnectFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, err := NewCameraDialer(url).Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	srv.Close()
	_, err = NewCameraDialer(url).Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error connecting to camera")
}
