// Package popup contains the interactive components that live on the
// application's popup stack. Each popup implements events.Popup: it may
// consume key events, renders itself into a centered box and reports
// whether it is still alive. Popups that solicit a value deliver it
// through a single-use response channel; closing that channel without a
// value is the cancellation signal the requesting wizard observes.
package popup

// boxSize returns the inner popup dimensions for a given screen size,
// half the screen with a sane floor.
func boxSize(width, height int) (int, int) {
	w := width / 2
	h := height / 2
	if w < 24 {
		w = 24
	}
	if h < 5 {
		h = 5
	}
	return w, h
}
