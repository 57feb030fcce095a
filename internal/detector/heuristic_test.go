package detector

import (
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/abhinaya/testdata"
)

func TestHeuristicDetector_EmptyFrame(t *testing.T) {
	d := NewHeuristicDetector(DefaultConfig())

	if _, err := d.Detect(nil); err == nil {
		t.Error("expected error for nil frame")
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if _, err := d.Detect(&empty); err == nil {
		t.Error("expected error for empty frame")
	}
}

func TestHeuristicDetector_NoFaceContent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	d := NewHeuristicDetector(DefaultConfig())

	frame := testdata.BlankFrame()
	defer frame.Close()

	obs, err := d.Detect(&frame)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if obs.Present {
		t.Error("blank frame should not register a face")
	}
	if obs.Kind != KindHeuristic {
		t.Errorf("kind = %s, want heuristic", obs.Kind)
	}
	if obs.Confidence != HeuristicConfidence {
		t.Errorf("confidence = %f, want %f", obs.Confidence, HeuristicConfidence)
	}
}

func TestHeuristicDetector_ExposureBounds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	d := NewHeuristicDetector(DefaultConfig())

	dark := testdata.DarkFrame()
	defer dark.Close()
	obs, err := d.Detect(&dark)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if obs.Present {
		t.Error("underexposed frame should not register a face")
	}

	bright := testdata.BrightFrame()
	defer bright.Close()
	obs, err = d.Detect(&bright)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if obs.Present {
		t.Error("overexposed frame should not register a face")
	}
}

func TestHeuristicDetector_CenteredFace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	d := NewHeuristicDetector(DefaultConfig())

	frame := testdata.CenteredFaceFrame()
	defer frame.Close()

	obs, err := d.Detect(&frame)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if !obs.Present {
		t.Fatal("centered face frame should register a face")
	}
	if !obs.Centered {
		t.Errorf("face should be centered, offsets = (%f, %f)",
			obs.HorizontalOffset, obs.VerticalOffset)
	}
	if !obs.DistanceOK {
		t.Errorf("distance should be acceptable, size ratio = %f", obs.SizeRatio)
	}
}

func TestHeuristicDetector_OffCenterFace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	d := NewHeuristicDetector(DefaultConfig())

	frame := testdata.OffCenterFaceFrame()
	defer frame.Close()

	obs, err := d.Detect(&frame)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if !obs.Present {
		t.Fatal("off-center face frame should still register a face")
	}
	if obs.Centered {
		t.Errorf("face should not be centered, offsets = (%f, %f)",
			obs.HorizontalOffset, obs.VerticalOffset)
	}
	if obs.HorizontalOffset >= 0 {
		t.Errorf("horizontal offset = %f, want negative for a left-shifted face",
			obs.HorizontalOffset)
	}
}

func TestHeuristicDetector_FaceTooFar(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	d := NewHeuristicDetector(DefaultConfig())

	frame := testdata.SmallFaceFrame()
	defer frame.Close()

	obs, err := d.Detect(&frame)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if !obs.Present {
		t.Fatal("small face frame should still register a face")
	}
	if obs.DistanceOK {
		t.Errorf("distance should fail, size ratio = %f", obs.SizeRatio)
	}
}
