package generator

// Config drives the synthetic network generator.
type Config struct {
	NumLines        int
	StationsPerLine int
	// TransferChance is the probability that a line reuses a station already
	// served by another line instead of opening a new one.
	TransferChance float64
	MinDistance    int64
	MaxDistance    int64
	Seed           int64
}

// DefaultConfig returns a city-sized network.
func DefaultConfig() Config {
	return Config{
		NumLines:        9,
		StationsPerLine: 25,
		TransferChance:  0.15,
		MinDistance:     1,
		MaxDistance:     12,
		Seed:            42,
	}
}
