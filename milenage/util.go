package milenage

// Shared functions

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/johnnyb/mobilecrypto/fault"
)

func checkKey(op string, key []byte) error {
	return fault.Length(op, "key", key, KeySize)
}

// Only called after checkKey, so AES cannot refuse the key
func newBlock(key []byte) cipher.Block {
	c, err := aes.NewCipher(key)
	if err != nil {
		panic(err)
	}
	return c
}

// Single block ECB encryption, dst and src may alias
func encryptWith(c cipher.Block, dst, src []byte) {
	c.Encrypt(dst[:blocksize], src[:blocksize])
}

// Cyclic left rotation of a 128-bit block by r bits
func rotate(x []byte, r int) []byte {
	out := make([]byte, blocksize)
	byteShift := (r / 8) % blocksize
	bitShift := uint(r % 8)
	for i := 0; i < blocksize; i++ {
		hi := x[(i+byteShift)%blocksize]
		lo := x[(i+byteShift+1)%blocksize]
		if bitShift == 0 {
			out[i] = hi
		} else {
			out[i] = hi<<bitShift | lo>>(8-bitShift)
		}
	}
	return out
}
