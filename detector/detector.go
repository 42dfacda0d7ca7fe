// Package detector turns webcam frames into pointer positions by tracking
// the most prominent face with the pigo face detector.
package detector

import (
	"errors"
	"fmt"
	"sync"

	pigo "github.com/esimov/pigo/core"

	"github.com/esimov/ascii-cloud/surface"
)

// ErrNoCascade is returned when detecting before a cascade was unpacked.
var ErrNoCascade = errors.New("detector: no cascade loaded")

// Detector holds the unpacked face classifier.
type Detector struct {
	mu             sync.Mutex
	faceClassifier *pigo.Pigo

	MinSize     int
	MaxSize     int
	ShiftFactor float64
	ScaleFactor float64
	IoU         float64
	MinQuality  float32
}

// NewDetector returns a detector with the default search parameters.
func NewDetector() *Detector {
	return &Detector{
		MinSize:     60,
		MaxSize:     1200,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		IoU:         0.1,
		MinQuality:  5,
	}
}

// UnpackCascade unpacks a facefinder cascade.
func (d *Detector) UnpackCascade(cascade []byte) error {
	p := pigo.NewPigo()
	// Unpack the binary file. This will return the number of cascade trees,
	// the tree depth, the threshold and the prediction from tree's leaf nodes.
	classifier, err := p.Unpack(cascade)
	if err != nil {
		return fmt.Errorf("unpack facefinder cascade: %w", err)
	}

	d.mu.Lock()
	d.faceClassifier = classifier
	d.mu.Unlock()
	return nil
}

// Ready reports whether a cascade has been unpacked.
func (d *Detector) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.faceClassifier != nil
}

// DetectFaces runs the cluster detection over a grayscale frame and returns
// the detected faces.
func (d *Detector) DetectFaces(f Frame) ([]pigo.Detection, error) {
	d.mu.Lock()
	classifier := d.faceClassifier
	d.mu.Unlock()
	if classifier == nil {
		return nil, ErrNoCascade
	}

	cParams := pigo.CascadeParams{
		MinSize:     d.MinSize,
		MaxSize:     d.MaxSize,
		ShiftFactor: d.ShiftFactor,
		ScaleFactor: d.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: f.Pixels,
			Rows:   f.Height,
			Cols:   f.Width,
			Dim:    f.Width,
		},
	}

	// Run the classifier over the obtained leaf nodes and return the detection results.
	// The result contains quadruplets representing the row, column, scale and detection score.
	dets := classifier.RunCascade(cParams, 0.0)

	// Calculate the intersection over union (IoU) of two clusters.
	return classifier.ClusterDetections(dets, d.IoU), nil
}

// Track returns the pointer position, inside bounds, of the best face found
// in the frame. ok is false when no face passes MinQuality.
func (d *Detector) Track(f Frame, bounds surface.Rect) (x, y float64, ok bool, err error) {
	dets, err := d.DetectFaces(f)
	if err != nil {
		return 0, 0, false, err
	}
	best, found := Best(dets, d.MinQuality)
	if !found {
		return 0, 0, false, nil
	}
	x, y = ToPointer(best, f.Width, f.Height, bounds)
	return x, y, true, nil
}

// Best picks the detection with the highest score at or above minQ.
func Best(dets []pigo.Detection, minQ float32) (pigo.Detection, bool) {
	var (
		best  pigo.Detection
		found bool
	)
	for _, det := range dets {
		if det.Q < minQ {
			continue
		}
		if !found || det.Q > best.Q {
			best, found = det, true
		}
	}
	return best, found
}

// ToPointer maps a face centre from frame pixels to bounds. The horizontal
// axis is mirrored so that moving left in front of the camera moves the
// pointer left on screen.
func ToPointer(det pigo.Detection, width, height int, bounds surface.Rect) (float64, float64) {
	if width <= 0 || height <= 0 {
		return bounds.Center()
	}
	u := 1 - float64(det.Col)/float64(width)
	v := float64(det.Row) / float64(height)
	return bounds.X + u*bounds.W, bounds.Y + v*bounds.H
}
