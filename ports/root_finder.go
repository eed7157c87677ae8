package ports

// RootFinderPort locates a zero of a scalar function inside a bracketing interval
type RootFinderPort interface {
	// FindRoot fails when f has the same sign at lower and upper.
	// It returns the root and the number of iterations used.
	FindRoot(f func(float64) float64, lower, upper float64) (float64, int, error)
}
