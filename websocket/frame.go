package websocket

import (
	"encoding/json"
	"time"

	"github.com/esimov/ascii-cloud/surface"
)

// Layer is one surface of a streamed frame.
type Layer struct {
	Name   string       `json:"name"`
	Bounds surface.Rect `json:"bounds"`
	Ops    []surface.Op `json:"ops"`
}

// Frame is the message broadcast to clients after every tick.
type Frame struct {
	Seq    uint64  `json:"seq"`
	Time   int64   `json:"time"`
	Layers []Layer `json:"layers"`
}

// Recorded pairs a layer name with the recorder it is drawn on.
type Recorded struct {
	Name     string
	Recorder *surface.Recorder
}

// Snapshot captures the current content of the recorders as a frame.
func Snapshot(seq uint64, now time.Time, layers ...Recorded) Frame {
	f := Frame{Seq: seq, Time: now.UnixMilli(), Layers: make([]Layer, 0, len(layers))}
	for _, l := range layers {
		f.Layers = append(f.Layers, Layer{
			Name:   l.Name,
			Bounds: l.Recorder.Bounds(),
			Ops:    l.Recorder.Ops(),
		})
	}
	return f
}

// Encode returns the JSON form of the frame.
func (f Frame) Encode() ([]byte, error) {
	return json.Marshal(f)
}
