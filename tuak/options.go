package tuak

import (
	"github.com/johnnyb/mobilecrypto/fault"
	"github.com/johnnyb/mobilecrypto/keccak"
)

type settings struct {
	macBits    int
	resBits    int
	ckBits     int
	ikBits     int
	iterations int
	permuter   keccak.Permuter
}

func defaults() settings {
	return settings{
		macBits:    64,
		resBits:    64,
		ckBits:     128,
		ikBits:     128,
		iterations: 1,
		permuter:   keccak.P1600{},
	}
}

// Option adjusts output lengths and the permutation of a TUAK instance.
type Option func(*settings) error

// WithMACBits sets the MAC-A / MAC-S length: 64, 128 or 256.
func WithMACBits(n int) Option {
	return func(s *settings) error {
		if n != 64 && n != 128 && n != 256 {
			return fault.Invalid("tuak.WithMACBits", "bits", "%d not in {64, 128, 256}", n)
		}
		s.macBits = n
		return nil
	}
}

// WithRESBits sets the RES length: 32, 64, 128 or 256.
func WithRESBits(n int) Option {
	return func(s *settings) error {
		if n != 32 && n != 64 && n != 128 && n != 256 {
			return fault.Invalid("tuak.WithRESBits", "bits", "%d not in {32, 64, 128, 256}", n)
		}
		s.resBits = n
		return nil
	}
}

// WithCKBits sets the CK length: 128 or 256.
func WithCKBits(n int) Option {
	return func(s *settings) error {
		if n != 128 && n != 256 {
			return fault.Invalid("tuak.WithCKBits", "bits", "%d not in {128, 256}", n)
		}
		s.ckBits = n
		return nil
	}
}

// WithIKBits sets the IK length: 128 or 256.
func WithIKBits(n int) Option {
	return func(s *settings) error {
		if n != 128 && n != 256 {
			return fault.Invalid("tuak.WithIKBits", "bits", "%d not in {128, 256}", n)
		}
		s.ikBits = n
		return nil
	}
}

// WithIterations sets how many times the permutation runs per call.
func WithIterations(n int) Option {
	return func(s *settings) error {
		if n < 1 {
			return fault.Invalid("tuak.WithIterations", "iterations", "must be at least 1, got %d", n)
		}
		s.iterations = n
		return nil
	}
}

// WithPermuter replaces Keccak-f[1600].
func WithPermuter(p keccak.Permuter) Option {
	return func(s *settings) error {
		if p == nil {
			return fault.Invalid("tuak.WithPermuter", "permuter", "nil")
		}
		s.permuter = p
		return nil
	}
}

func apply(opts []Option) (settings, error) {
	s := defaults()
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return settings{}, err
		}
	}
	return s, nil
}
