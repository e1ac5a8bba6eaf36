package analysis

// Config collects the tunable thresholds of the analysis pipeline.
//
// The zero value of any field means "use the default"; pipeline entry
// points normalize their Config before use, so Config{} behaves exactly
// like DefaultConfig().
type Config struct {
	// EdgeThreshold is the gradient magnitude (0-255) at which the
	// rectangle search considers a pixel a region boundary. Lower values
	// make the search stop earlier and produce smaller candidate boxes.
	EdgeThreshold float64

	// ConfidenceThreshold is the minimum validation confidence (0-1) for
	// a candidate region to be accepted. Candidates below it are dropped;
	// if every candidate is dropped, a fallback region is synthesized.
	ConfidenceThreshold float64

	// KMeansIterations is the fixed clustering budget for palette
	// extraction. Clustering always runs exactly this many iterations;
	// there is no convergence check.
	KMeansIterations int

	// SampleStride is the palette sampling density: every SampleStride-th
	// pixel contributes a color sample. Higher values are faster but less
	// representative.
	SampleStride int

	// Seed, when non-nil, makes centroid initialization deterministic.
	// When nil, each palette extraction seeds its own RNG from the clock,
	// so repeated runs over the same image may order clusters differently.
	Seed *int64
}

// Default pipeline thresholds. Documented effects live on the Config fields.
const (
	DefaultEdgeThreshold       = 100.0
	DefaultConfidenceThreshold = 0.3
	DefaultKMeansIterations    = 10
	DefaultSampleStride        = 10

	// DefaultColorCount is the palette size used when a caller does not
	// request a specific number of colors.
	DefaultColorCount = 5
)

// DefaultConfig returns the pipeline configuration the product ships with.
func DefaultConfig() Config {
	return Config{
		EdgeThreshold:       DefaultEdgeThreshold,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		KMeansIterations:    DefaultKMeansIterations,
		SampleStride:        DefaultSampleStride,
	}
}

// withDefaults replaces zero-valued fields with their defaults.
func (c Config) withDefaults() Config {
	if c.EdgeThreshold == 0 {
		c.EdgeThreshold = DefaultEdgeThreshold
	}
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if c.KMeansIterations == 0 {
		c.KMeansIterations = DefaultKMeansIterations
	}
	if c.SampleStride == 0 {
		c.SampleStride = DefaultSampleStride
	}
	return c
}
