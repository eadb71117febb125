package core

import (
	"fmt"
	"image"
	"math"
)

// Rect is an element box in CSS pixels, relative to the page origin.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CropInset trims device pixels off the top and bottom of the element box.
// Canvas elements leave a one pixel seam at their boundary in Chrome
// screenshots; recalibrate if captures show a border or lose a row.
type CropInset struct {
	Top    int
	Bottom int
}

var DefaultCropInset = CropInset{Top: 1, Bottom: 1}

// CropRect maps an element box to screenshot pixels: scaled by the device
// pixel ratio, inset, and clipped to bounds.
func CropRect(box Rect, pixelRatio float64, inset CropInset, bounds image.Rectangle) (image.Rectangle, error) {
	if pixelRatio <= 0 || math.IsNaN(pixelRatio) || math.IsInf(pixelRatio, 0) {
		pixelRatio = 1
	}
	if box.Width <= 0 || box.Height <= 0 {
		return image.Rectangle{}, fmt.Errorf("render target has empty size %gx%g", box.Width, box.Height)
	}

	left := int(math.Round(box.X * pixelRatio))
	top := int(math.Round(box.Y*pixelRatio)) + inset.Top
	right := int(math.Round((box.X + box.Width) * pixelRatio))
	bottom := int(math.Round((box.Y+box.Height)*pixelRatio)) - inset.Bottom

	if right <= left || bottom <= top {
		return image.Rectangle{}, fmt.Errorf("crop rectangle (%d,%d)-(%d,%d) is empty after inset", left, top, right, bottom)
	}

	rect := image.Rect(left, top, right, bottom).Intersect(bounds)
	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("crop rectangle (%d,%d)-(%d,%d) lies outside screenshot %v", left, top, right, bottom, bounds)
	}

	return rect, nil
}
