// Package keccak provides the Keccak-p[1600] permutation that TUAK is built on.
package keccak

import (
	"encoding/binary"
	"math/bits"
)

// StateSize is the permutation width in bytes.
const StateSize = 200

// Rounds in Keccak-f[1600]
const Rounds = 24

// Permuter transforms a 1600-bit state in place.  Lanes are loaded from the
// bytes in little-endian order.
type Permuter interface {
	Permute(state *[StateSize]byte)
}

// P1600 is the full 24 round Keccak-f[1600].
type P1600 struct{}

func (P1600) Permute(state *[StateSize]byte) {
	PermuteRounds(state, Rounds)
}

// Permute applies Keccak-f[1600] to state.
func Permute(state *[StateSize]byte) {
	PermuteRounds(state, Rounds)
}

var roundConstants = [Rounds]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808a, 0x8000000080008000,
	0x000000000000808b, 0x0000000080000001, 0x8000000080008081, 0x8000000000008009,
	0x000000000000008a, 0x0000000000000088, 0x0000000080008009, 0x000000008000000a,
	0x000000008000808b, 0x800000000000008b, 0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080, 0x000000000000800a, 0x800000008000000a,
	0x8000000080008081, 0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

// rho offsets and pi lane order, walked from lane 1
var rotc = [24]int{1, 3, 6, 10, 15, 21, 28, 36, 45, 55, 2, 14, 27, 41, 56, 8, 25, 43, 62, 18, 39, 61, 20, 44}
var piln = [24]int{10, 7, 11, 17, 18, 3, 5, 16, 8, 21, 24, 4, 15, 23, 19, 13, 12, 2, 20, 14, 22, 9, 6, 1}

// PermuteRounds applies Keccak-p[1600, nr], the last nr rounds of Keccak-f.
func PermuteRounds(state *[StateSize]byte, nr int) {
	if nr > Rounds {
		nr = Rounds
	}
	var a [25]uint64
	for i := range a {
		a[i] = binary.LittleEndian.Uint64(state[8*i:])
	}

	var bc [5]uint64
	for r := Rounds - nr; r < Rounds; r++ {
		// theta
		for i := 0; i < 5; i++ {
			bc[i] = a[i] ^ a[i+5] ^ a[i+10] ^ a[i+15] ^ a[i+20]
		}
		for i := 0; i < 5; i++ {
			t := bc[(i+4)%5] ^ bits.RotateLeft64(bc[(i+1)%5], 1)
			for j := 0; j < 25; j += 5 {
				a[j+i] ^= t
			}
		}

		// rho and pi
		t := a[1]
		for i := 0; i < 24; i++ {
			j := piln[i]
			bc[0] = a[j]
			a[j] = bits.RotateLeft64(t, rotc[i])
			t = bc[0]
		}

		// chi
		for j := 0; j < 25; j += 5 {
			for i := 0; i < 5; i++ {
				bc[i] = a[j+i]
			}
			for i := 0; i < 5; i++ {
				a[j+i] ^= ^bc[(i+1)%5] & bc[(i+2)%5]
			}
		}

		// iota
		a[0] ^= roundConstants[r]
	}

	for i := range a {
		binary.LittleEndian.PutUint64(state[8*i:], a[i])
	}
}
