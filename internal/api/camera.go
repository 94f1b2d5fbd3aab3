//go:generate go run github.com/golang/mock/mockgen -destination=./mocks/camera.go -package=mocks . CameraSource,CameraConn

package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// ErrCameraClosed wraps any failure reading from an established camera socket.
var ErrCameraClosed = errors.New("camera connection closed")

// CameraSource opens a connection to the camera's frame socket.
type CameraSource interface {
	Connect(ctx context.Context) (CameraConn, error)
}

// CameraConn yields frames until it fails or is closed.
type CameraConn interface {
	ReadFrame(ctx context.Context) ([]byte, error)
	Close() error
}

// CameraDialer dials the camera websocket, e.g. ws://192.168.1.48/ws.
type CameraDialer struct {
	url    string
	dialer *websocket.Dialer
}

func NewCameraDialer(url string) *CameraDialer {
	return &CameraDialer{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

func (d *CameraDialer) URL() string {
	return d.url
}

func (d *CameraDialer) Connect(ctx context.Context) (CameraConn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, d.url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("error connecting to camera: status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("error connecting to camera: %w", err)
	}
	return &cameraConn{conn: conn}, nil
}

type cameraConn struct {
	conn *websocket.Conn
}

// ReadFrame blocks for the next message. Cancelling ctx closes the socket.
func (c *cameraConn) ReadFrame(ctx context.Context) ([]byte, error) {
	stop := context.AfterFunc(ctx, func() { _ = c.conn.Close() })
	defer stop()

	_, frame, err := c.conn.ReadMessage()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrCameraClosed, err)
	}
	return frame, nil
}

func (c *cameraConn) Close() error {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}
