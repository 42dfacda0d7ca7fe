//go:build js && wasm

package main

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/esimov/ascii-cloud/frame"
	"github.com/esimov/ascii-cloud/input"
	cloud "github.com/esimov/ascii-cloud/label-cloud"
	field "github.com/esimov/ascii-cloud/particle-field"
	"github.com/esimov/ascii-cloud/stats"
	"github.com/esimov/ascii-cloud/wasm/canvas"
)

func main() {
	fieldCanvas, err := canvas.New("field")
	if err != nil {
		slog.Error("find field canvas", "error", err)
		return
	}
	cloudCanvas, err := canvas.New("cloud")
	if err != nil {
		slog.Error("find cloud canvas", "error", err)
		return
	}
	statsCanvas, err := canvas.New("stats")
	if err != nil {
		slog.Warn("no stats canvas", "error", err)
	}

	fit := func() {
		fieldCanvas.Fit()
		cloudCanvas.Fit()
		if statsCanvas != nil {
			statsCanvas.Fit()
		}
	}
	fit()

	src := canvas.NewDOMSource()
	raf := canvas.NewScheduler()

	// Drawing buffers follow the layout before the engines re-seed.
	src.Subscribe(func(ev input.Event) {
		if ev.Kind == input.Resize {
			fit()
		}
	})

	seed := uint64(time.Now().UnixNano())
	f := field.New(fieldCanvas, field.DefaultConfig(), rand.New(rand.NewPCG(seed, seed>>1|1)))
	f.Mount(src, raf)

	c := cloud.New(cloudCanvas, cloud.DefaultConfig())
	c.Mount(src, raf)

	board := stats.NewBoard(stats.DefaultStats)
	if statsCanvas != nil {
		frame.Start(raf, board.Paint(statsCanvas))
	}

	canvas.OnVisible(cloudCanvas.Element(), func() {
		c.Reveal()
		board.Start(raf)
	})

	// Keep Go runtime alive
	select {}
}
