// Package testdata synthesizes frames for detector and analysis tests.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

const (
	frameWidth  = 640
	frameHeight = 480
)

// skinColor is a solid color that lands inside the HSV skin range.
var skinColor = color.RGBA{R: 210, G: 160, B: 130, A: 255}

// BlankFrame returns a uniformly lit gray frame with no face content.
func BlankFrame() gocv.Mat {
	mat := gocv.NewMatWithSize(frameHeight, frameWidth, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(128, 128, 128, 0))
	return mat
}

// DarkFrame returns a nearly black frame, below any exposure threshold.
func DarkFrame() gocv.Mat {
	mat := gocv.NewMatWithSize(frameHeight, frameWidth, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(5, 5, 5, 0))
	return mat
}

// BrightFrame returns an overexposed near-white frame.
func BrightFrame() gocv.Mat {
	mat := gocv.NewMatWithSize(frameHeight, frameWidth, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(250, 250, 250, 0))
	return mat
}

// CenteredFaceFrame returns a gray frame with a skin-colored ellipse in the
// center, sized like a well-framed head.
func CenteredFaceFrame() gocv.Mat {
	return faceFrameAt(frameWidth/2, frameHeight/2, 110, 150)
}

// OffCenterFaceFrame returns a frame with the face region pushed toward the
// left edge, still visible but clearly not centered.
func OffCenterFaceFrame() gocv.Mat {
	return faceFrameAt(frameWidth/4, frameHeight/2, 110, 150)
}

// SmallFaceFrame returns a frame with a face region too small to pass the
// minimum size ratio, as if the subject sat far from the camera.
func SmallFaceFrame() gocv.Mat {
	return faceFrameAt(frameWidth/2, frameHeight/2, 60, 54)
}

func faceFrameAt(cx, cy, rx, ry int) gocv.Mat {
	mat := gocv.NewMatWithSize(frameHeight, frameWidth, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(128, 128, 128, 0))

	center := image.Pt(cx, cy)
	gocv.Ellipse(&mat, center, image.Pt(rx, ry), 0, 0, 360, skinColor, -1)
	return mat
}
