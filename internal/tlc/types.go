package tlc

// Series holds the per-frame position of one compound. X and Y always have
// the same length.
type Series struct {
	X []float64
	Y []float64
}

func (s Series) Len() int { return len(s.Y) }

func (s Series) Clone() Series {
	c := Series{X: make([]float64, len(s.X)), Y: make([]float64, len(s.Y))}
	copy(c.X, s.X)
	copy(c.Y, s.Y)
	return c
}

// At returns the position at frame i.
func (s Series) At(i int) (x, y float64) {
	return s.X[i], s.Y[i]
}

// Last returns the final position, the point the compound settles at.
func (s Series) Last() (x, y float64) {
	return s.At(s.Len() - 1)
}

// Entry is one compound's simulated series. A run result is an ordered
// slice of entries; the order fixes colors and markers downstream.
type Entry struct {
	Name    string
	Lane    int
	Solvent bool
	Series  Series
}

// TailLength is the number of settled frames appended after frameCount
// simulated frames.
func TailLength(frameCount int) int {
	return frameCount / 4
}

// SeriesLength is the full series length for frameCount simulated frames.
func SeriesLength(frameCount int) int {
	return frameCount + TailLength(frameCount)
}
