package display

import "fmt"

// Color is an RGBA background colour.
type Color struct {
	R, G, B, A uint8
}

//nolint:gochecknoglobals // Fixed palette of the banner.
var (
	// AlertDim is the transparent red the alert banner starts with.
	AlertDim = Color{R: 255, A: 0}
	// AlertBright is the opaque red the alert banner blinks to.
	AlertBright = Color{R: 255, A: 255}
	// ResolvedGreen is the opaque green of the resolved banner.
	ResolvedGreen = Color{G: 255, A: 255}
)

// String renders the colour as #RRGGBBAA.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
