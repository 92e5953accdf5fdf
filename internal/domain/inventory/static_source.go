package inventory

import "sync/atomic"

// StaticSource is a WorldSource holding a view that callers replace explicitly
type StaticSource struct {
	view atomic.Pointer[WorldView]
}

// NewStaticSource creates a source serving the given view
func NewStaticSource(view WorldView) *StaticSource {
	s := &StaticSource{}
	s.Set(view)
	return s
}

// Set replaces the served view
func (s *StaticSource) Set(view WorldView) {
	if view == nil {
		view = NewSnapshotCounter(nil, nil)
	}
	s.view.Store(&view)
}

// Current returns the served view
func (s *StaticSource) Current() WorldView {
	return *s.view.Load()
}
