package thermcam

import "github.com/flavioheleno/thermcam/amg88xx"

// SourceIndex returns the frame index shown at display cell (x, y).
//
// The sensor is mounted facing the scene, so both axes are mirrored:
// cell (0, 0) shows the last element and cell (7, 7) the first.
func SourceIndex(x, y int) int {
	return (amg88xx.Height-y-1)*amg88xx.Width + (amg88xx.Width - x - 1)
}
