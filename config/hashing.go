package config

// HashAlgorithm selects the 32-bit digest used by the multi-probe hasher.
type HashAlgorithm string

const (
	// HashXXH32 uses seeded XXH32. With the default seeds it reproduces the
	// probe sequences the false positive rate tuning was done with.
	HashXXH32 HashAlgorithm = "xxh32"

	// HashXXH3 takes the low 32 bits of seeded XXH3-64.
	HashXXH3 HashAlgorithm = "xxh3"

	// HashMurmur3 uses seeded MurmurHash3 x86_32.
	HashMurmur3 HashAlgorithm = "murmur3"

	// HashXXHash takes the low 32 bits of seeded XXH64.
	HashXXHash HashAlgorithm = "xxhash"
)

const (
	// DefaultHashSeed1 and DefaultHashSeed2 are the seeds existing false positive
	// rate tuning was done with, together with HashXXH32. Other algorithms give
	// different probes for the same seeds.
	DefaultHashSeed1 uint32 = 123456789
	DefaultHashSeed2 uint32 = 987654321
)

// HashingCfg configures probe generation. Zero values are replaced by defaults in Adjust.
type HashingCfg struct {
	// Algorithm is one of "xxh32" (default), "xxh3", "murmur3", "xxhash".
	Algorithm HashAlgorithm `yaml:"algorithm"`

	// Seed1 and Seed2 seed the two base digests h1 and h2. They must differ.
	Seed1 uint32 `yaml:"seed1"`
	Seed2 uint32 `yaml:"seed2"`
}

// DefaultHashing returns the hashing configuration used when none is given.
func DefaultHashing() HashingCfg {
	return HashingCfg{Algorithm: HashXXH32, Seed1: DefaultHashSeed1, Seed2: DefaultHashSeed2}
}

func (cfg *HashingCfg) Adjust() {
	if cfg.Algorithm == "" {
		cfg.Algorithm = HashXXH32
	}
	if cfg.Seed1 == 0 && cfg.Seed2 == 0 {
		cfg.Seed1, cfg.Seed2 = DefaultHashSeed1, DefaultHashSeed2
	}
}

// RandomAlgorithm selects the generator behind the decay index source.
type RandomAlgorithm string

const (
	// RandomChaCha8 is the ChaCha8 generator keyed by the seed string.
	RandomChaCha8 RandomAlgorithm = "chacha8"

	// RandomSplitMix64 is SplitMix64 seeded from the XXH3 digest of the seed string.
	RandomSplitMix64 RandomAlgorithm = "splitmix64"
)

// DefaultRandomSeed is the fixed seed the decay sequence is reproduced from.
const DefaultRandomSeed = "22333322"

// RandomCfg configures the decay index source of stable filters.
// The seed is fixed, never taken from system entropy.
type RandomCfg struct {
	Algorithm RandomAlgorithm `yaml:"algorithm"`
	Seed      string          `yaml:"seed"`
}

// DefaultRandom returns the random configuration used when none is given.
func DefaultRandom() RandomCfg {
	return RandomCfg{Algorithm: RandomChaCha8, Seed: DefaultRandomSeed}
}

func (cfg *RandomCfg) Adjust() {
	if cfg.Algorithm == "" {
		cfg.Algorithm = RandomChaCha8
	}
	if cfg.Seed == "" {
		cfg.Seed = DefaultRandomSeed
	}
}
