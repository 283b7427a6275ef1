package kdf

import (
	"github.com/johnnyb/mobilecrypto/fault"
)

// TS 33.401 annex A

const maxNASCount = 1<<24 - 1

// A2 derives KASME from CK, IK, the 3 byte serving network id and SQN xor AK.
func A2(ck, ik, snID, sqnXorAK []byte) ([]byte, error) {
	if err := fault.Join(
		fault.Length("kdf.A2", "ck", ck, 16),
		fault.Length("kdf.A2", "ik", ik, 16),
		fault.Length("kdf.A2", "snID", snID, 3),
		fault.Length("kdf.A2", "sqnXorAK", sqnXorAK, 6),
	); err != nil {
		return nil, err
	}
	return Derive(concat(ck, ik), 0x10, snID, sqnXorAK)
}

// A3 derives KeNB from KASME and the 24-bit uplink NAS COUNT.
func A3(kasme []byte, ulNASCount uint32) ([]byte, error) {
	if err := fault.Length("kdf.A3", "kasme", kasme, KeySize); err != nil {
		return nil, err
	}
	if ulNASCount > maxNASCount {
		return nil, fault.Invalid("kdf.A3", "ulNASCount", "%#x exceeds 24 bits", ulNASCount)
	}
	return Derive(kasme, 0x11, uint32Param(ulNASCount))
}

// A4 derives NH from KASME and SYNC-input.
func A4(kasme, sync []byte) ([]byte, error) {
	if err := fault.Join(
		fault.Length("kdf.A4", "kasme", kasme, KeySize),
		fault.Length("kdf.A4", "sync", sync, KeySize),
	); err != nil {
		return nil, err
	}
	return Derive(kasme, 0x12, sync)
}

// A7 derives a NAS, RRC or UP key from KASME or KeNB.
func A7(key []byte, dist, algID byte) ([]byte, error) {
	if err := fault.Length("kdf.A7", "key", key, KeySize); err != nil {
		return nil, err
	}
	return Derive(key, 0x15, []byte{dist}, []byte{algID})
}
