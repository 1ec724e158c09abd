package lenticalib

import (
	"errors"
	"fmt"
)

// ViewSet is the ordered, fixed set of source views interleaved under the lenses.
// All views share one size. The set never changes after construction.
type ViewSet struct {
	views         []*PixelBuffer
	width, height int
}

// NewViewSet takes ownership of views; callers must not mutate them afterwards.
func NewViewSet(views []*PixelBuffer) (*ViewSet, error) {
	if len(views) == 0 {
		return nil, errors.New("view set needs at least one view")
	}
	w, h := views[0].Width, views[0].Height
	for i, v := range views {
		if v == nil {
			return nil, fmt.Errorf("view %d is nil", i)
		}
		if v.Width != w || v.Height != h {
			return nil, fmt.Errorf("%w: view %d is %dx%d, view 0 is %dx%d", ErrViewMismatch, i, v.Width, v.Height, w, h)
		}
	}
	vs := make([]*PixelBuffer, len(views))
	copy(vs, views)
	DebugLog("Created view set: %d views of %dx%d", len(vs), w, h)
	return &ViewSet{views: vs, width: w, height: h}, nil
}

func (s *ViewSet) Len() int    { return len(s.views) }
func (s *ViewSet) Width() int  { return s.width }
func (s *ViewSet) Height() int { return s.height }

// View returns view i after folding i into [0, Len()).
func (s *ViewSet) View(i int) *PixelBuffer {
	return s.views[ReduceView(i, len(s.views))]
}
