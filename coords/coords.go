// ABOUTME: Typed coordinate spaces and index clamping for pointer tracking
// ABOUTME: Makes client/overlay conversions explicit instead of ad hoc arithmetic

// Package coords converts raw pointer positions into grid-overlay space and clamps
// logical indices at the grid boundaries.
package coords

// NoIndex is returned by index lookups when a pixel falls outside the addressable grid
const NoIndex = -1

// Client is a position in raw host/pointer space
type Client struct {
	X float64
	Y float64
}

// Overlay is a position relative to the grid overlay origin, corrected for zoom
type Overlay struct {
	X float64
	Y float64
}

// ToOverlay converts a client position into overlay space.
// origin is the overlay's top-left corner in client space; zoom <= 0 is treated as 1.
func ToOverlay(c Client, origin Client, zoom float64) Overlay {
	if zoom <= 0 {
		zoom = 1
	}

	return Overlay{
		X: (c.X - origin.X) / zoom,
		Y: (c.Y - origin.Y) / zoom,
	}
}

// ToClient converts an overlay position back into client space
func ToClient(o Overlay, origin Client, zoom float64) Client {
	if zoom <= 0 {
		zoom = 1
	}

	return Client{
		X: o.X*zoom + origin.X,
		Y: o.Y*zoom + origin.Y,
	}
}

// AdjustIndexWithinBounds gives a fallback index when a lookup returned NoIndex:
// 0 if the pixel is before the grid, maxIndex otherwise.
func AdjustIndexWithinBounds(index int, pixelPos float64, maxIndex int) int {
	if index != NoIndex {
		return index
	}

	if pixelPos < 0 {
		return 0
	}

	return maxIndex
}

// Axis selects the horizontal (columns) or vertical (rows) dimension
type Axis int

// Grid axes
const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}

	return "horizontal"
}

// Along returns the component of c on axis a
func (a Axis) Along(c Client) float64 {
	if a == Vertical {
		return c.Y
	}

	return c.X
}
