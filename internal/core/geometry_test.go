package core

import (
	"image"
	"math"
	"testing"
)

func TestCropRect(t *testing.T) {
	bounds := image.Rect(0, 0, 1280, 1024)
	box := Rect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name       string
		box        Rect
		pixelRatio float64
		inset      CropInset
		want       image.Rectangle
	}{
		{
			name:       "dpr 1 with default inset",
			box:        box,
			pixelRatio: 1,
			inset:      DefaultCropInset,
			want:       image.Rect(10, 21, 110, 69),
		},
		{
			name:       "dpr 2 scales before inset",
			box:        box,
			pixelRatio: 2,
			inset:      DefaultCropInset,
			want:       image.Rect(20, 41, 220, 139),
		},
		{
			name:       "no inset",
			box:        box,
			pixelRatio: 1,
			want:       image.Rect(10, 20, 110, 70),
		},
		{
			name:       "fractional ratio rounds",
			box:        Rect{X: 1, Y: 1, Width: 3, Height: 3},
			pixelRatio: 1.5,
			want:       image.Rect(2, 2, 6, 6),
		},
		{
			name:       "invalid ratio treated as 1",
			box:        box,
			pixelRatio: math.NaN(),
			want:       image.Rect(10, 20, 110, 70),
		},
		{
			name:       "clipped to screenshot",
			box:        Rect{X: 1200, Y: 1000, Width: 200, Height: 100},
			pixelRatio: 1,
			want:       image.Rect(1200, 1000, 1280, 1024),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CropRect(tt.box, tt.pixelRatio, tt.inset, bounds)
			if err != nil {
				t.Fatalf("CropRect() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCropRectErrors(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)

	tests := []struct {
		name  string
		box   Rect
		inset CropInset
	}{
		{name: "zero width", box: Rect{X: 0, Y: 0, Width: 0, Height: 10}},
		{name: "negative height", box: Rect{X: 0, Y: 0, Width: 10, Height: -1}},
		{name: "inset swallows box", box: Rect{X: 0, Y: 0, Width: 10, Height: 1}, inset: DefaultCropInset},
		{name: "outside screenshot", box: Rect{X: 200, Y: 200, Width: 10, Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CropRect(tt.box, 1, tt.inset, bounds); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
