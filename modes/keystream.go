package modes

import (
	"encoding/binary"

	"github.com/johnnyb/mobilecrypto/fault"
)

// Generator is a word-oriented keystream generator such as SNOW 3G or ZUC.
// key and iv are given in the byte order of the 3GPP documents: the first
// four bytes of iv hold IV3 for SNOW 3G and iv[0] for ZUC.  Keystream returns
// the first n bytes of output, most significant byte of each word first.
type Generator interface {
	Keystream(key, iv []byte, n int) ([]byte, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(key, iv []byte, n int) ([]byte, error)

func (f GeneratorFunc) Keystream(key, iv []byte, n int) ([]byte, error) {
	return f(key, iv, n)
}

// Pull n bytes from gen and make sure it really delivered them.
func keystream(op string, gen Generator, key, iv []byte, n int) ([]byte, error) {
	if gen == nil {
		return nil, fault.Invalid(op, "generator", "no keystream generator configured")
	}
	ks, err := gen.Keystream(key, iv, n)
	if err != nil {
		return nil, fault.Primitive(op, err)
	}
	if len(ks) < n {
		return nil, fault.Primitive(op, fault.Invalid(op, "keystream", "got %d of %d bytes", len(ks), n))
	}
	return ks[:n], nil
}

// IV layouts

// SNOW3GCipherIV is IV3..IV0 for UEA2 / 128-EEA1.
func SNOW3GCipherIV(ctx Context) []byte {
	iv := make([]byte, 16)
	bd := ctx.Bearer<<27 | ctx.Direction<<26
	binary.BigEndian.PutUint32(iv[0:], ctx.Count)
	binary.BigEndian.PutUint32(iv[4:], bd)
	binary.BigEndian.PutUint32(iv[8:], ctx.Count)
	binary.BigEndian.PutUint32(iv[12:], bd)
	return iv
}

// SNOW3GIntegrityIV is IV3..IV0 for UIA2 / 128-EIA1.
func SNOW3GIntegrityIV(ctx Context) []byte {
	iv := make([]byte, 16)
	binary.BigEndian.PutUint32(iv[0:], ctx.Count)
	binary.BigEndian.PutUint32(iv[4:], ctx.Fresh)
	binary.BigEndian.PutUint32(iv[8:], ctx.Count^ctx.Direction<<31)
	binary.BigEndian.PutUint32(iv[12:], ctx.Fresh^ctx.Direction<<15)
	return iv
}
