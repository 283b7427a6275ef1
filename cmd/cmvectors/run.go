package main

import (
	"bytes"
	"crypto/aes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/johnnyb/mobilecrypto/aka"
	"github.com/johnnyb/mobilecrypto/bits"
	"github.com/johnnyb/mobilecrypto/cmac"
	"github.com/johnnyb/mobilecrypto/internal/config"
	"github.com/johnnyb/mobilecrypto/internal/logger"
	"github.com/johnnyb/mobilecrypto/milenage"
	"github.com/johnnyb/mobilecrypto/modes"
	"github.com/johnnyb/mobilecrypto/tuak"
)

// Report counts the vectors that matched and those that did not.
type Report struct {
	Passed int
	Failed int
}

type check struct {
	field string
	got   []byte
	want  config.Hex
}

// Fields with no expected value are skipped.
func mismatches(checks ...check) []string {
	var bad []string
	for _, c := range checks {
		if len(c.want) > 0 && !bytes.Equal(c.got, c.want) {
			bad = append(bad, fmt.Sprintf("%s=%s want %s", c.field, hex.EncodeToString(c.got), hex.EncodeToString(c.want)))
		}
	}
	return bad
}

func bitLen(n *int) int {
	if n == nil {
		return bits.AllBits
	}
	return *n
}

func modeContext(p config.Params) modes.Context {
	return modes.Context{Count: p.Count, Bearer: p.Bearer, Direction: p.Direction}
}

// Run checks every vector in cfg and logs one line per vector.
func Run(cfg *config.Config, l *logger.Logger) Report {
	var r Report
	record := func(section, name string, bad []string, err error) {
		vl := l.With("alg", section).With("vector", name)
		switch {
		case err != nil:
			r.Failed++
			vl.Error("error: %v", err)
		case len(bad) > 0:
			r.Failed++
			vl.Error("mismatch: %s", strings.Join(bad, ", "))
		default:
			r.Passed++
			vl.Info("ok")
		}
	}

	for _, v := range cfg.Milenage {
		bad, err := runMilenage(v)
		record("milenage", v.Name, bad, err)
	}
	for _, v := range cfg.TUAK {
		bad, err := runTUAK(v)
		record("tuak", v.Name, bad, err)
	}
	for _, v := range cfg.CMAC {
		bad, err := runCMAC(v)
		record("cmac", v.Name, bad, err)
	}

	ciphers := []struct {
		section string
		vectors []config.CipherVector
		fn      func([]byte, modes.Context, []byte, int) ([]byte, error)
	}{
		{"eea2", cfg.EEA2, modes.EEA2},
		{"eea3", cfg.EEA3, modes.EEA3},
	}
	for _, c := range ciphers {
		for _, v := range c.vectors {
			out, err := c.fn(v.Key, modeContext(v.Params), v.Plaintext, bitLen(v.BitLen))
			record(c.section, v.Name, mismatches(check{"ciphertext", out, v.Ciphertext}), err)
		}
	}

	macs := []struct {
		section string
		vectors []config.MACVector
		fn      func([]byte, modes.Context, []byte, int) ([]byte, error)
	}{
		{"eia2", cfg.EIA2, modes.EIA2},
		{"eia3", cfg.EIA3, modes.EIA3},
	}
	for _, c := range macs {
		for _, v := range c.vectors {
			mac, err := c.fn(v.Key, modeContext(v.Params), v.Message, bitLen(v.BitLen))
			record(c.section, v.Name, mismatches(check{"mac", mac, v.MAC}), err)
		}
	}
	return r
}

// Byte-aligned vectors are also run through the streaming hash.
func runCMAC(v config.CMACVector) ([]string, error) {
	tagBits := v.TagBits
	if tagBits == 0 {
		tagBits = cmac.FullTag
	}
	n := bitLen(v.BitLen)
	tag, err := cmac.Compute(aes.NewCipher, v.Key, v.Message, n, tagBits)
	if err != nil {
		return nil, err
	}
	checks := []check{{"tag", tag, v.Tag}}

	if (n == bits.AllBits || n%8 == 0) && tagBits%8 == 0 {
		block, err := aes.NewCipher(v.Key)
		if err != nil {
			return nil, err
		}
		h, err := cmac.NewHash(block, tagBits/8)
		if err != nil {
			return nil, err
		}
		msg := v.Message
		if n != bits.AllBits {
			msg = msg[:n/8]
		}
		h.Write(msg)
		checks = append(checks, check{"stream_tag", h.Sum(nil), v.Tag})
	}
	return mismatches(checks...), nil
}

func runMilenage(v config.MilenageVector) ([]string, error) {
	var (
		m   *milenage.Milenage
		err error
	)
	if len(v.OP) > 0 {
		m, err = milenage.New(v.K, v.OP)
	} else {
		m, err = milenage.NewWithOPc(v.K, v.OPc)
	}
	if err != nil {
		return nil, err
	}
	bad, err := runAKA(m, v.RAND, v.SQN, v.AMF, v.Expect.AKAExpect)
	if err != nil {
		return nil, err
	}
	return append(mismatches(check{"opc", m.OPc(), v.Expect.OPc}), bad...), nil
}

func runTUAK(v config.TUAKVector) ([]string, error) {
	var opts []tuak.Option
	if v.MACBits != 0 {
		opts = append(opts, tuak.WithMACBits(v.MACBits))
	}
	if v.RESBits != 0 {
		opts = append(opts, tuak.WithRESBits(v.RESBits))
	}
	if v.CKBits != 0 {
		opts = append(opts, tuak.WithCKBits(v.CKBits))
	}
	if v.IKBits != 0 {
		opts = append(opts, tuak.WithIKBits(v.IKBits))
	}
	if v.Iterations != 0 {
		opts = append(opts, tuak.WithIterations(v.Iterations))
	}
	t, err := tuak.New(v.K, v.TOP, opts...)
	if err != nil {
		return nil, err
	}
	bad, err := runAKA(t, v.RAND, v.SQN, v.AMF, v.Expect.AKAExpect)
	if err != nil {
		return nil, err
	}
	return append(mismatches(check{"topc", t.TOPc(), v.Expect.TOPc}), bad...), nil
}

// f1 and f1* need SQN and AMF; vectors without them only check f2..f5*.
func runAKA(f aka.Functions, rand, sqn, amf []byte, want config.AKAExpect) ([]string, error) {
	var checks []check
	if len(sqn) > 0 || len(amf) > 0 {
		macA, err := f.F1(rand, sqn, amf)
		if err != nil {
			return nil, err
		}
		macS, err := f.F1Star(rand, sqn, amf)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check{"mac_a", macA, want.MACA}, check{"mac_s", macS, want.MACS})
	}
	res, ck, ik, ak, err := f.F2345(rand)
	if err != nil {
		return nil, err
	}
	akStar, err := f.F5Star(rand)
	if err != nil {
		return nil, err
	}
	checks = append(checks,
		check{"res", res, want.RES},
		check{"ck", ck, want.CK},
		check{"ik", ik, want.IK},
		check{"ak", ak, want.AK},
		check{"ak_star", akStar, want.AKStar})
	return mismatches(checks...), nil
}
