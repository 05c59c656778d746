package render

// DefaultPxPerUnit is the standard zoom: 50 pixels per simulation unit.
const DefaultPxPerUnit = 50.0

// Mapper converts between simulation units and pixels. The scale is fixed
// for the lifetime of a session; pixel-space geometry cached elsewhere is
// only valid for the Mapper it was produced with.
//
// Pixel space has its origin at the canvas center and y growing downward,
// so simulation "up" maps to negative pixel y.
type Mapper struct {
	PxPerUnit float64
}

// NewMapper returns a Mapper with the given scale. A zero or negative
// scale falls back to DefaultPxPerUnit.
func NewMapper(pxPerUnit float64) Mapper {
	if pxPerUnit <= 0 {
		pxPerUnit = DefaultPxPerUnit
	}
	return Mapper{PxPerUnit: pxPerUnit}
}

// ToScreen maps a simulation-space point to pixel space.
func (m Mapper) ToScreen(x, y float64) (px, py float64) {
	return x * m.PxPerUnit, -y * m.PxPerUnit
}

// ToSim maps a pixel-space point back to simulation space. It is the
// exact inverse of ToScreen.
func (m Mapper) ToSim(px, py float64) (x, y float64) {
	return px / m.PxPerUnit, -py / m.PxPerUnit
}
