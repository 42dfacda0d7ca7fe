package detector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// ErrShortFrame is returned for a webcam frame smaller than its header says.
var ErrShortFrame = errors.New("detector: frame shorter than width*height")

const headerSize = 4

// Frame is an 8-bit grayscale webcam image.
type Frame struct {
	Width, Height int
	Pixels        []uint8
}

// ParseFrame decodes a binary websocket message: big endian uint16 width
// and height followed by width*height grayscale pixels.
func ParseFrame(msg []byte) (Frame, error) {
	if len(msg) < headerSize {
		return Frame{}, ErrShortFrame
	}
	w := int(binary.BigEndian.Uint16(msg[0:2]))
	h := int(binary.BigEndian.Uint16(msg[2:4]))
	pixels := msg[headerSize:]
	if w == 0 || h == 0 || len(pixels) < w*h {
		return Frame{}, fmt.Errorf("%w: %dx%d with %d pixels", ErrShortFrame, w, h, len(pixels))
	}
	return Frame{Width: w, Height: h, Pixels: pixels[:w*h]}, nil
}

// EncodeFrame is the inverse of ParseFrame.
func EncodeFrame(f Frame) []byte {
	msg := make([]byte, headerSize+len(f.Pixels))
	binary.BigEndian.PutUint16(msg[0:2], uint16(f.Width))
	binary.BigEndian.PutUint16(msg[2:4], uint16(f.Height))
	copy(msg[headerSize:], f.Pixels)
	return msg
}

// ParseCascade loads a cascade file from disk.
func ParseCascade(path string) ([]byte, error) {
	slog.Info("loading cascade file", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cascade: %w", err)
	}
	return data, nil
}

// Load creates a detector from the cascade at path.
func Load(path string) (*Detector, error) {
	cascade, err := ParseCascade(path)
	if err != nil {
		return nil, err
	}
	d := NewDetector()
	if err := d.UnpackCascade(cascade); err != nil {
		return nil, err
	}
	return d, nil
}
