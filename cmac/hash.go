package cmac

import (
	"crypto/cipher"
	"hash"

	aeadcmac "github.com/aead/cmac"

	"github.com/johnnyb/mobilecrypto/fault"
)

// NewHash returns a streaming, byte-oriented CMAC for callers that never need
// sub-byte message lengths.  tagBytes is the Sum length.
func NewHash(block cipher.Block, tagBytes int) (hash.Hash, error) {
	if block == nil || block.BlockSize() != BlockSize {
		return nil, fault.Invalid("cmac.NewHash", "block", "need a %d byte block cipher", BlockSize)
	}
	if tagBytes <= 0 || tagBytes > BlockSize {
		return nil, fault.Invalid("cmac.NewHash", "tagBytes", "%d outside (0, %d]", tagBytes, BlockSize)
	}
	h, err := aeadcmac.NewWithTagSize(block, tagBytes)
	if err != nil {
		return nil, fault.Primitive("cmac.NewHash", err)
	}
	return h, nil
}
