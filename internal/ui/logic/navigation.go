package logic

// Navigator handles selection and viewport management over a flat list
type Navigator struct {
	selectedIndex  int
	viewportOffset int
	viewportHeight int
	totalItems     int
}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{viewportHeight: 1}
}

// SetTotal updates the number of items and clamps the selection
func (n *Navigator) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	n.totalItems = total
	n.clamp()
	n.ensureSelectedVisible()
}

// SetViewportHeight sets how many lines the list may use
func (n *Navigator) SetViewportHeight(height int) {
	if height < 1 {
		height = 1
	}
	n.viewportHeight = height
	n.ensureSelectedVisible()
}

// Total returns the number of items
func (n *Navigator) Total() int { return n.totalItems }

// GetSelectedIndex returns the current selected index
func (n *Navigator) GetSelectedIndex() int {
	return n.selectedIndex
}

// GetViewportOffset returns the current viewport offset
func (n *Navigator) GetViewportOffset() int {
	return n.viewportOffset
}

// GetViewportHeight returns the viewport height
func (n *Navigator) GetViewportHeight() int {
	return n.viewportHeight
}

// SetSelectedIndex sets the selected index and ensures it's visible
func (n *Navigator) SetSelectedIndex(index int) (int, int) {
	n.selectedIndex = index
	n.clamp()
	n.ensureSelectedVisible()
	return n.selectedIndex, n.viewportOffset
}

// Move moves the selection by delta items
func (n *Navigator) Move(delta int) (int, int) {
	return n.SetSelectedIndex(n.selectedIndex + delta)
}

// Reset moves the selection back to the top
func (n *Navigator) Reset() {
	n.selectedIndex = 0
	n.viewportOffset = 0
}

// NearEnd reports whether the selection is within threshold items of the last item
func (n *Navigator) NearEnd(threshold int) bool {
	if n.totalItems == 0 {
		return false
	}
	return n.selectedIndex >= n.totalItems-1-threshold
}

// VisibleRange returns the half-open item range shown in the viewport
func (n *Navigator) VisibleRange() (start, end int) {
	start = n.viewportOffset
	end = start + n.effectiveHeight()
	if end > n.totalItems {
		end = n.totalItems
	}
	return start, end
}

func (n *Navigator) clamp() {
	if n.selectedIndex >= n.totalItems {
		n.selectedIndex = n.totalItems - 1
	}
	if n.selectedIndex < 0 {
		n.selectedIndex = 0
	}
}

// effectiveHeight is the viewport height minus the scroll indicator lines
func (n *Navigator) effectiveHeight() int {
	needsTopIndicator := n.viewportOffset > 0
	needsBottomIndicator := n.viewportOffset+n.viewportHeight < n.totalItems

	// Showing the top indicator can push the last item out of view
	if !needsBottomIndicator && needsTopIndicator {
		remainingItems := n.totalItems - n.viewportOffset
		if remainingItems > n.viewportHeight-1 {
			needsBottomIndicator = true
		}
	}

	effectiveHeight := n.viewportHeight
	if needsTopIndicator {
		effectiveHeight--
	}
	if needsBottomIndicator {
		effectiveHeight--
	}
	if effectiveHeight < 1 {
		effectiveHeight = 1
	}
	return effectiveHeight
}

// ensureSelectedVisible adjusts the viewport to keep the selected item visible
func (n *Navigator) ensureSelectedVisible() {
	// If selected item is above viewport, scroll up
	if n.selectedIndex < n.viewportOffset {
		n.viewportOffset = n.selectedIndex
	}

	effectiveHeight := n.effectiveHeight()

	// If selected item is below effective viewport, scroll down
	if n.selectedIndex >= n.viewportOffset+effectiveHeight {
		n.viewportOffset = n.selectedIndex - effectiveHeight + 1
		// Scrolling down may have introduced the top indicator
		effectiveHeight = n.effectiveHeight()
		if n.selectedIndex >= n.viewportOffset+effectiveHeight {
			n.viewportOffset = n.selectedIndex - effectiveHeight + 1
		}
	}

	// The maximum offset should ensure we can still fill the viewport
	maxOffset := n.totalItems - effectiveHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if n.viewportOffset > maxOffset {
		n.viewportOffset = maxOffset
	}
	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}
