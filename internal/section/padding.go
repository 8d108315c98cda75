package section

// Padding bounds, in pixels.
const (
	MinPadding = 0
	MaxPadding = 200
)

// Padding is the spacing around a rendered section. Left and Right are optional;
// when both are absent the padding converts losslessly to the legacy unified
// (top/bottom only) form.
type Padding struct {
	Top    int  `json:"top" validate:"min=0,max=200"`
	Bottom int  `json:"bottom" validate:"min=0,max=200"`
	Left   *int `json:"left,omitempty" validate:"omitempty,min=0,max=200"`
	Right  *int `json:"right,omitempty" validate:"omitempty,min=0,max=200"`
}

// Clamp bounds every side to [MinPadding, MaxPadding].
func (p Padding) Clamp() Padding {
	out := Padding{Top: ClampSide(p.Top), Bottom: ClampSide(p.Bottom)}
	if p.Left != nil {
		out.Left = IntPtr(ClampSide(*p.Left))
	}
	if p.Right != nil {
		out.Right = IntPtr(ClampSide(*p.Right))
	}
	return out
}

// Unified converts to the legacy top/bottom representation. lossless is false
// when left or right would be dropped.
func (p Padding) Unified() (top, bottom int, lossless bool) {
	return p.Top, p.Bottom, p.Left == nil && p.Right == nil
}

// FromUnified builds a padding from the legacy top/bottom representation.
func FromUnified(top, bottom int) Padding {
	return Padding{Top: top, Bottom: bottom}
}

// ToMap serializes the padding the way it is persisted.
func (p Padding) ToMap() map[string]any {
	out := map[string]any{"top": p.Top, "bottom": p.Bottom}
	if p.Left != nil {
		out["left"] = *p.Left
	}
	if p.Right != nil {
		out["right"] = *p.Right
	}
	return out
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// ClampSide bounds one side to [MinPadding, MaxPadding].
func ClampSide(v int) int {
	if v < MinPadding {
		return MinPadding
	}
	if v > MaxPadding {
		return MaxPadding
	}
	return v
}
