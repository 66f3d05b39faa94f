package image

type Dimension uint32
type Size uint32
type Quality uint8

// Attr ...
type Attr struct {
	Width   Dimension `json:"width"`
	Height  Dimension `json:"height"`
	Quality Quality   `json:"quality,omitempty"`
	Size    Size      `json:"size"`
	Frames  int       `json:"frames,omitempty"`
	Format  Format    `json:"format"`
	Ext     string    `json:"ext,omitempty"`
	Mime    string    `json:"mime,omitempty"`
	Name    string    `json:"name,omitempty"`
}

// NewAttr ...
func NewAttr(w, h uint, q uint8) *Attr {
	return &Attr{
		Width:   Dimension(w),
		Height:  Dimension(h),
		Quality: Quality(q),
	}
}
