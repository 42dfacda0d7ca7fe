package terminal

// MobileBreakpoint is the surface width, in pixels, under which panels take
// the full screen width.
const MobileBreakpoint = 768

// FullScreen covers the whole screen.
func FullScreen(w, h int) (int, int, int, int) {
	return 0, 0, w, h
}

// CenterPanel returns a placement for a panel centred above a reserved
// bottom strip of reserve rows. On narrow screens it spans the full width.
func (s *Screen) CenterPanel(reserve int) Placement {
	return func(w, h int) (int, int, int, int) {
		avail := h - reserve
		if avail < 0 {
			avail = 0
		}
		pw := w * 3 / 5
		if float64(w)*s.cellW < MobileBreakpoint {
			pw = w
		}
		ph := avail * 4 / 5
		return (w - pw) / 2, (avail - ph) / 2, pw, ph
	}
}

// BottomRows returns a placement for the last rows lines of the screen.
func BottomRows(rows int) Placement {
	return func(w, h int) (int, int, int, int) {
		n := min(rows, h)
		return 0, h - n, w, n
	}
}
