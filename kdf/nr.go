package kdf

import (
	"crypto/sha256"

	"github.com/johnnyb/mobilecrypto/fault"
)

// TS 33.501 annex A

func checkSNName(op string, snName []byte) error {
	return checkRange(op, "snName", snName, 32, 255)
}

// KAUSF is A.2: KAUSF from CK, IK, the serving network name and SQN xor AK.
func KAUSF(ck, ik, snName, sqnXorAK []byte) ([]byte, error) {
	if err := fault.Join(
		fault.Length("kdf.KAUSF", "ck", ck, 16),
		fault.Length("kdf.KAUSF", "ik", ik, 16),
		checkSNName("kdf.KAUSF", snName),
		fault.Length("kdf.KAUSF", "sqnXorAK", sqnXorAK, 6),
	); err != nil {
		return nil, err
	}
	return Derive(concat(ck, ik), 0x6a, snName, sqnXorAK)
}

// CKIKPrime is A.3, the EAP-AKA' CK' and IK'.
func CKIKPrime(ck, ik, anID, sqnXorAK []byte) (ckPrime, ikPrime []byte, err error) {
	if err := fault.Join(
		fault.Length("kdf.CKIKPrime", "ck", ck, 16),
		fault.Length("kdf.CKIKPrime", "ik", ik, 16),
		checkRange("kdf.CKIKPrime", "anID", anID, 6, 255),
		fault.Length("kdf.CKIKPrime", "sqnXorAK", sqnXorAK, 6),
	); err != nil {
		return nil, nil, err
	}
	out, err := Derive(concat(ck, ik), 0x20, anID, sqnXorAK)
	if err != nil {
		return nil, nil, err
	}
	return out[:16], out[16:], nil
}

// ResStar is A.4: RES* (or XRES*) from a 4 to 16 byte RES.
func ResStar(ck, ik, snName, rand, res []byte) ([]byte, error) {
	if err := fault.Join(
		fault.Length("kdf.ResStar", "ck", ck, 16),
		fault.Length("kdf.ResStar", "ik", ik, 16),
		checkSNName("kdf.ResStar", snName),
		fault.Length("kdf.ResStar", "rand", rand, 16),
		checkRange("kdf.ResStar", "res", res, 4, 16),
	); err != nil {
		return nil, err
	}
	out, err := Derive(concat(ck, ik), 0x6b, snName, rand, res)
	if err != nil {
		return nil, err
	}
	return out[16:], nil
}

// HResStar is A.5: the 128 least significant bits of SHA-256(RAND || RES*).
func HResStar(rand, resStar []byte) ([]byte, error) {
	if err := fault.Join(
		fault.Length("kdf.HResStar", "rand", rand, 16),
		fault.Length("kdf.HResStar", "resStar", resStar, 16),
	); err != nil {
		return nil, err
	}
	sum := sha256.Sum256(concat(rand, resStar))
	return sum[16:], nil
}

// KSEAF is A.6.
func KSEAF(kausf, snName []byte) ([]byte, error) {
	if err := fault.Join(
		fault.Length("kdf.KSEAF", "kausf", kausf, KeySize),
		checkSNName("kdf.KSEAF", snName),
	); err != nil {
		return nil, err
	}
	return Derive(kausf, 0x6c, snName)
}

// KAMF is A.7.  supi is the IMSI digits, NAI or GCI/GLI.
func KAMF(kseaf, supi, abba []byte) ([]byte, error) {
	if err := fault.Join(
		fault.Length("kdf.KAMF", "kseaf", kseaf, KeySize),
		checkRange("kdf.KAMF", "supi", supi, 12, 255),
		fault.Length("kdf.KAMF", "abba", abba, 2),
	); err != nil {
		return nil, err
	}
	return Derive(kseaf, 0x6d, supi, abba)
}

// AlgorithmKey is A.8: KNASenc/int from KAMF or KRRC/KUP from KgNB.
func AlgorithmKey(key []byte, algType, algID byte) ([]byte, error) {
	if err := fault.Length("kdf.AlgorithmKey", "key", key, KeySize); err != nil {
		return nil, err
	}
	if algType > UPInt {
		return nil, fault.Invalid("kdf.AlgorithmKey", "algType", "%#x is not a known distinguisher", algType)
	}
	if algID > 15 {
		return nil, fault.Invalid("kdf.AlgorithmKey", "algID", "%d exceeds 4 bits", algID)
	}
	return Derive(key, 0x69, []byte{algType}, []byte{algID})
}

// KgNB is A.9.  The same derivation with AccessNon3GPP gives KN3IWF.
func KgNB(kamf []byte, ulNASCount uint32, accessType byte) ([]byte, error) {
	if err := fault.Length("kdf.KgNB", "kamf", kamf, KeySize); err != nil {
		return nil, err
	}
	if accessType != Access3GPP && accessType != AccessNon3GPP {
		return nil, fault.Invalid("kdf.KgNB", "accessType", "%#x is not 1 or 2", accessType)
	}
	return Derive(kamf, 0x6e, uint32Param(ulNASCount), []byte{accessType})
}

// NH is A.10.
func NH(kamf, sync []byte) ([]byte, error) {
	if err := fault.Join(
		fault.Length("kdf.NH", "kamf", kamf, KeySize),
		fault.Length("kdf.NH", "sync", sync, KeySize),
	); err != nil {
		return nil, err
	}
	return Derive(kamf, 0x6f, sync)
}
