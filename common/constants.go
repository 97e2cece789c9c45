package common

// World space is measured in units with y pointing up.
const (
	StepRate = 60
	StepDT   = 1.0 / StepRate
	Gravity  = -9.8

	ScreenWidth   = 800
	ScreenHeight  = 600
	PixelsPerUnit = 20.0
)

// FramesFor converts simulated seconds to whole steps.
func FramesFor(seconds float64) int {
	return int(seconds*StepRate + 0.5)
}
