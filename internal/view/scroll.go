package view

// bottomSlack is how close to the bottom, in rows, still counts as pinned.
const bottomSlack = 50

// Viewport is the scroll state of a pane. Units are whatever the renderer
// measures in; the text renderer uses lines.
type Viewport struct {
	ScrollTop    int
	ScrollHeight int
	ClientHeight int
}

func (v Viewport) AtBottom() bool {
	return v.ScrollHeight-v.ScrollTop <= v.ClientHeight+bottomSlack
}

// Repaint returns the viewport after the content grows or shrinks to
// height: pinned to the bottom when it was near the bottom before,
// otherwise at the exact previous offset.
func (v Viewport) Repaint(height int) Viewport {
	next := Viewport{ScrollTop: v.ScrollTop, ScrollHeight: height, ClientHeight: v.ClientHeight}
	if v.AtBottom() {
		next.ScrollTop = height - v.ClientHeight
		if next.ScrollTop < 0 {
			next.ScrollTop = 0
		}
	}
	return next
}
