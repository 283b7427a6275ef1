package modes

import (
	"github.com/emmansun/gmsm/zuc"

	"github.com/johnnyb/mobilecrypto/bits"
	"github.com/johnnyb/mobilecrypto/fault"
)

// ZUC is the 128-bit ZUC generator from gmsm, usable wherever a Generator is
// expected.
type ZUC struct{}

func (ZUC) Keystream(key, iv []byte, n int) ([]byte, error) {
	stream, err := zuc.NewCipher(key, iv)
	if err != nil {
		return nil, fault.Primitive("modes.ZUC", err)
	}
	ks := make([]byte, n)
	stream.XORKeyStream(ks, ks)
	return ks, nil
}

// EEA3 is 128-EEA3.
func EEA3(key []byte, ctx Context, data []byte, bitLen int) ([]byte, error) {
	msg, n, err := prepare("modes.EEA3", key, ctx, data, bitLen)
	if err != nil {
		return nil, err
	}
	stream, err := zuc.NewEEACipher(key, ctx.Count, ctx.Bearer, ctx.Direction)
	if err != nil {
		return nil, fault.Primitive("modes.EEA3", err)
	}

	out := make([]byte, len(msg))
	stream.XORKeyStream(out, msg)
	bits.ZeroTail(out, n)
	return out, nil
}

// EIA3 is 128-EIA3.
func EIA3(key []byte, ctx Context, data []byte, bitLen int) ([]byte, error) {
	msg, n, err := prepare("modes.EIA3", key, ctx, data, bitLen)
	if err != nil {
		return nil, err
	}
	h, err := zuc.NewEIAHash(key, ctx.Count, ctx.Bearer, ctx.Direction)
	if err != nil {
		return nil, fault.Primitive("modes.EIA3", err)
	}
	return h.Finish(msg, n), nil
}
