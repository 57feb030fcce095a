package detector

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// Heuristic thresholds.
const (
	// HeuristicConfidence is the fixed confidence reported by the
	// pixel-statistics backend.
	HeuristicConfidence = 0.5

	// MinSkinRatio is the minimum fraction of skin-toned pixels in the
	// central region for a face to count as present.
	MinSkinRatio = 0.08

	// MinBrightness and MaxBrightness bound the usable exposure range.
	// Frames darker or brighter than this are treated as face-absent.
	MinBrightness = 0.12
	MaxBrightness = 0.95

	// BalanceTolerance is the maximum left/right (or top/bottom) skin-mass
	// imbalance for the face to count as centered.
	BalanceTolerance = 0.25
)

// HSV bounds for the skin-tone mask.
var (
	skinLower = gocv.NewScalar(0, 40, 60, 0)
	skinUpper = gocv.NewScalar(25, 170, 255, 0)
)

// HeuristicDetector estimates face presence and position from cheap pixel
// statistics: a skin-tone mask over a central region, overall brightness,
// and the left/right and top/bottom balance of the skin mass.
type HeuristicDetector struct {
	config Config
}

// NewHeuristicDetector creates a heuristic detector with the given thresholds.
func NewHeuristicDetector(config Config) *HeuristicDetector {
	return &HeuristicDetector{config: config}
}

// Detect computes a FaceObservation from pixel statistics.
func (d *HeuristicDetector) Detect(frame *gocv.Mat) (FaceObservation, error) {
	if frame == nil || frame.Empty() {
		return FaceObservation{}, errors.New("empty frame")
	}

	obs := FaceObservation{
		Kind:       KindHeuristic,
		Confidence: HeuristicConfidence,
	}

	// Overall brightness from the grayscale mean.
	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}
	meanScalar := gray.Mean()
	exposure := meanScalar.Val1 / 255.0

	// Skin-tone mask over the whole frame.
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(*frame, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, skinLower, skinUpper, &mask)

	rows, cols := mask.Rows(), mask.Cols()
	total := rows * cols
	if total == 0 {
		return FaceObservation{}, errors.New("empty frame")
	}

	skinTotal := gocv.CountNonZero(mask)

	// Central region ratio decides presence; a face filling the middle of
	// the frame dominates this window.
	center := mask.Region(image.Rect(cols/4, rows/6, cols*3/4, rows*5/6))
	centerSkin := gocv.CountNonZero(center)
	centerArea := center.Rows() * center.Cols()
	center.Close()

	centerRatio := float64(centerSkin) / float64(centerArea)
	obs.SizeRatio = float64(skinTotal) / float64(total)

	obs.Present = centerRatio >= MinSkinRatio &&
		exposure >= MinBrightness && exposure <= MaxBrightness
	if !obs.Present {
		return obs, nil
	}

	// Position from skin-mass balance between frame halves.
	left := mask.Region(image.Rect(0, 0, cols/2, rows))
	right := mask.Region(image.Rect(cols/2, 0, cols, rows))
	top := mask.Region(image.Rect(0, 0, cols, rows/2))
	bottom := mask.Region(image.Rect(0, rows/2, cols, rows))

	leftSkin := gocv.CountNonZero(left)
	rightSkin := gocv.CountNonZero(right)
	topSkin := gocv.CountNonZero(top)
	bottomSkin := gocv.CountNonZero(bottom)

	left.Close()
	right.Close()
	top.Close()
	bottom.Close()

	if skinTotal > 0 {
		obs.HorizontalOffset = float64(rightSkin-leftSkin) / float64(skinTotal)
		obs.VerticalOffset = float64(bottomSkin-topSkin) / float64(skinTotal)
	}

	obs.Centered = abs(obs.HorizontalOffset) <= BalanceTolerance &&
		abs(obs.VerticalOffset) <= BalanceTolerance
	obs.DistanceOK = obs.SizeRatio >= d.config.MinFaceRatio &&
		obs.SizeRatio <= d.config.MaxFaceRatio

	return obs, nil
}

// Kind returns KindHeuristic.
func (d *HeuristicDetector) Kind() Kind {
	return KindHeuristic
}

// Close is a no-op; the heuristic holds no resources between frames.
func (d *HeuristicDetector) Close() error {
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
