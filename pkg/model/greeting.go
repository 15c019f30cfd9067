package model

// Greeting is the result of one unit of simulated work. Delay and Duration are
// in seconds; Duration is measured around the wait and is never below Delay.
type Greeting struct {
	Message  string
	Delay    float64
	Duration float64
}
