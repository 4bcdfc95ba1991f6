package bridge

// StopAllExcept pauses every element on the page whose id is not id. It
// queries the live element set on each call, so it corrects for elements
// paused or started outside the bridge.
func (b *Bridge) StopAllExcept(id string) {
	for _, el := range b.elements.All() {
		if el.ID() != id {
			el.Pause()
		}
	}
}
