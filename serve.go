package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/esimov/ascii-cloud/config"
	"github.com/esimov/ascii-cloud/detector"
	"github.com/esimov/ascii-cloud/frame"
	"github.com/esimov/ascii-cloud/http"
	"github.com/esimov/ascii-cloud/input"
	"github.com/esimov/ascii-cloud/surface"
	"github.com/esimov/ascii-cloud/terminal"
	"github.com/esimov/ascii-cloud/websocket"
)

// Height, in pixels, of the stats strip in the streamed layout.
const statsHeight = 80

// streamer runs the engines headless and streams the recorded frames to
// websocket clients, taking their pointer events and webcam frames as input.
type streamer struct {
	loop *frame.Loop
	hub  *input.Hub
	ws   *websocket.Hub
	det  *detector.Detector
	eng  *engines

	field, cloud, stats *surface.Recorder

	seq         uint64
	logger      *slog.Logger
	unsubscribe func()
}

func newStreamer(cfg *config.Config, logger *slog.Logger) (*streamer, error) {
	s := &streamer{
		loop:   frame.NewLoop(cfg.FPS),
		hub:    input.NewHub(),
		field:  surface.NewRecorder(surface.Rect{}),
		cloud:  surface.NewRecorder(surface.Rect{}),
		stats:  surface.NewRecorder(surface.Rect{}),
		logger: logger,
	}
	if cfg.Cascade != "" {
		det, err := detector.Load(cfg.Cascade)
		if err != nil {
			return nil, err
		}
		s.det = det
	} else {
		logger.Info("no cascade configured, webcam frames are ignored")
	}
	s.ws = websocket.NewHub(websocket.Handlers{Text: s.handleText, Binary: s.handleBinary}, logger)
	s.eng = newEngines(cfg, s.field, s.cloud)

	// Layout has to run before the engines see a resize.
	s.unsubscribe = s.hub.Subscribe(s.handleEvent)
	s.eng.mount(s.hub, s.loop)
	s.loop.AfterFrame(s.broadcast)
	return s, nil
}

// layout splits a w x h viewport into the full screen field, the centred
// cloud panel and the stats strip at the bottom.
func layout(w, h float64) (fieldRect, cloudRect, statsRect surface.Rect) {
	sh := math.Min(statsHeight, h)
	avail := h - sh

	cw := w * 3 / 5
	if w < terminal.MobileBreakpoint {
		cw = w
	}
	ch := avail * 4 / 5

	fieldRect = surface.Rect{W: w, H: h}
	cloudRect = surface.Rect{X: (w - cw) / 2, Y: (avail - ch) / 2, W: cw, H: ch}
	statsRect = surface.Rect{Y: h - sh, W: w, H: sh}
	return
}

func (s *streamer) handleEvent(ev input.Event) {
	switch ev.Kind {
	case input.Resize:
		f, c, st := layout(ev.Width, ev.Height)
		s.field.SetBounds(f)
		s.cloud.SetBounds(c)
		s.stats.SetBounds(st)
	case input.Visible:
		s.eng.reveal(s.loop)
	}
}

// handleText decodes a client input event and publishes it on the loop.
func (s *streamer) handleText(msg []byte) {
	var ev input.Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		s.logger.Debug("decode input event", "error", err)
		return
	}
	s.loop.Post(func() { s.hub.Publish(ev) })
}

// handleBinary tracks the face in a webcam frame and moves the pointer to it.
// Detection runs on the client's reader goroutine.
func (s *streamer) handleBinary(msg []byte) {
	if s.det == nil {
		return
	}
	f, err := detector.ParseFrame(msg)
	if err != nil {
		s.logger.Debug("decode webcam frame", "error", err)
		return
	}
	x, y, ok, err := s.det.Track(f, s.field.Bounds())
	if err != nil {
		s.logger.Error("track face", "error", err)
		return
	}
	if !ok {
		return
	}
	s.loop.Post(func() { s.hub.Publish(input.Event{Kind: input.Move, X: x, Y: y}) })
}

func (s *streamer) snapshot(now time.Time) websocket.Frame {
	return websocket.Snapshot(s.seq, now,
		websocket.Recorded{Name: "field", Recorder: s.field},
		websocket.Recorded{Name: "cloud", Recorder: s.cloud},
		websocket.Recorded{Name: "stats", Recorder: s.stats},
	)
}

func (s *streamer) broadcast(now time.Time) {
	s.seq++
	if s.ws.Clients() == 0 {
		return
	}
	msg, err := s.snapshot(now).Encode()
	if err != nil {
		s.logger.Error("encode frame", "error", err)
		return
	}
	s.ws.Broadcast(msg)
}

func (s *streamer) teardown() {
	s.unsubscribe()
	s.eng.teardown()
	s.ws.Close()
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	s, err := newStreamer(cfg, logger)
	if err != nil {
		return err
	}
	defer s.teardown()

	srv, err := http.NewServer(http.HttpParams{Address: cfg.Addr, Prefix: cfg.Prefix, Root: cfg.Root}, s.ws, logger)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	paint := frame.Scope(ctx, s.loop, s.eng.board.Paint(s.stats))
	defer paint.Stop()

	g.Go(func() error { return s.loop.Run(ctx) })
	g.Go(func() error { return srv.ListenAndServe(ctx) })
	return g.Wait()
}
