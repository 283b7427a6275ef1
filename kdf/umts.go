package kdf

import (
	"github.com/johnnyb/mobilecrypto/bits"
	"github.com/johnnyb/mobilecrypto/fault"
)

// C2 folds a 4 to 16 byte XRES into a GSM SRES.
func C2(xres []byte) ([]byte, error) {
	if err := checkRange("kdf.C2", "xres", xres, 4, 16); err != nil {
		return nil, err
	}
	x := make([]byte, 16)
	copy(x, xres)
	return bits.Xor(bits.Xor(x[0:4], x[4:8]), bits.Xor(x[8:12], x[12:16])), nil
}

// C3 derives the GSM Kc from CK and IK.
func C3(ck, ik []byte) ([]byte, error) {
	if err := fault.Join(
		fault.Length("kdf.C3", "ck", ck, 16),
		fault.Length("kdf.C3", "ik", ik, 16),
	); err != nil {
		return nil, err
	}
	return bits.Xor(bits.Xor(ck[0:8], ck[8:16]), bits.Xor(ik[0:8], ik[8:16])), nil
}

// C4 expands Kc into a UMTS CK.
func C4(kc []byte) ([]byte, error) {
	if err := fault.Length("kdf.C4", "kc", kc, 8); err != nil {
		return nil, err
	}
	return concat(kc, kc), nil
}

// C5 expands Kc into a UMTS IK.
func C5(kc []byte) ([]byte, error) {
	if err := fault.Length("kdf.C5", "kc", kc, 8); err != nil {
		return nil, err
	}
	x := bits.Xor(kc[:4], kc[4:])
	return concat(concat(x, kc), x), nil
}
