package api

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-logr/logr"
	"github.com/robinbraemer/event"

	"go.lodestone.dev/lodestone/pkg/loader"
)

// streamPriority runs stream subscribers after the resolvers so a
// forwarded ResolveRequestEvent carries its settled outcome.
const streamPriority = -10

const (
	streamBuffer       = 16
	streamWriteTimeout = 5 * time.Second
)

// StreamEvent is one message of the event stream endpoint.
type StreamEvent struct {
	Type string    `json:"type"`
	Time time.Time `json:"time"`
	Data any       `json:"data,omitempty"`
}

// handleEvents upgrades to a websocket and forwards mod pipeline
// events until the client disconnects. Events fired faster than the
// client reads are dropped.
func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	log := logr.FromContextOrDiscard(r.Context()).WithName("stream")

	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.V(1).Info("websocket accept failed", "error", err)
		return
	}
	defer c.CloseNow()

	// The stream is write-only, discard client frames.
	ctx := c.CloseRead(r.Context())

	events := make(chan StreamEvent, streamBuffer)
	offer := func(e StreamEvent) {
		select {
		case events <- e:
		default:
		}
	}

	unsubscribes := []func(){
		event.Subscribe(s.l.Event(), streamPriority, func(e *loader.ScanCompletedEvent) {
			offer(StreamEvent{Type: "scanCompleted", Time: time.Now(), Data: map[string]any{
				"section":    e.Section,
				"baseDir":    e.BaseDir,
				"registered": e.Registered,
				"duration":   e.Duration.String(),
			}})
		}),
		event.Subscribe(s.l.Event(), streamPriority, func(e *loader.ModsAttachedEvent) {
			var count int
			if e.Registry != nil {
				count = e.Registry.Len()
			}
			offer(StreamEvent{Type: "modsAttached", Time: time.Now(), Data: map[string]any{
				"mods": count,
			}})
		}),
		event.Subscribe(s.l.Event(), streamPriority, func(e *loader.ResolveRequestEvent) {
			path, ok := e.Result()
			offer(StreamEvent{Type: "resolveRequest", Time: time.Now(), Data: map[string]any{
				"name":     e.Name,
				"path":     path,
				"resolved": ok,
			}})
		}),
	}
	defer func() {
		for _, unsubscribe := range unsubscribes {
			unsubscribe()
		}
	}()

	log.V(1).Info("event stream opened", "remoteAddr", r.RemoteAddr)
	for {
		select {
		case <-ctx.Done():
			_ = c.Close(websocket.StatusNormalClosure, "")
			return
		case e := <-events:
			wctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
			err = wsjson.Write(wctx, c, e)
			cancel()
			if err != nil {
				log.V(1).Info("event stream closed", "error", err)
				return
			}
		}
	}
}
