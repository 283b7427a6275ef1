package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/johnnyb/mobilecrypto/fault"
)

// Hex is a byte string written in YAML as hex.  Spaces and dashes are
// ignored so vectors can be pasted straight from the 3GPP documents.
type Hex []byte

func (h *Hex) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: want a hex string", value.Line)
	}
	s := strings.NewReplacer(" ", "", "-", "", "\t", "").Replace(value.Value)
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*h = b
	return nil
}

type Config struct {
	LogLevel string           `yaml:"log_level"`
	Milenage []MilenageVector `yaml:"milenage"`
	TUAK     []TUAKVector     `yaml:"tuak"`
	CMAC     []CMACVector     `yaml:"cmac"`
	EEA2     []CipherVector   `yaml:"eea2"`
	EIA2     []MACVector      `yaml:"eia2"`
	EEA3     []CipherVector   `yaml:"eea3"`
	EIA3     []MACVector      `yaml:"eia3"`
}

// AKAExpect holds the outputs shared by MILENAGE and TUAK.  Empty fields are
// not checked.
type AKAExpect struct {
	MACA   Hex `yaml:"mac_a"`
	MACS   Hex `yaml:"mac_s"`
	RES    Hex `yaml:"res"`
	CK     Hex `yaml:"ck"`
	IK     Hex `yaml:"ik"`
	AK     Hex `yaml:"ak"`
	AKStar Hex `yaml:"ak_star"`
}

type MilenageVector struct {
	Name string `yaml:"name"`
	K    Hex    `yaml:"k"`
	OP   Hex    `yaml:"op"`
	OPc  Hex    `yaml:"opc"` // used when op is absent
	RAND Hex    `yaml:"rand"`
	SQN  Hex    `yaml:"sqn"`
	AMF  Hex    `yaml:"amf"`

	Expect struct {
		OPc       Hex `yaml:"opc"`
		AKAExpect `yaml:",inline"`
	} `yaml:"expect"`
}

type TUAKVector struct {
	Name       string `yaml:"name"`
	K          Hex    `yaml:"k"`
	TOP        Hex    `yaml:"top"`
	RAND       Hex    `yaml:"rand"`
	SQN        Hex    `yaml:"sqn"`
	AMF        Hex    `yaml:"amf"`
	MACBits    int    `yaml:"mac_bits"`
	RESBits    int    `yaml:"res_bits"`
	CKBits     int    `yaml:"ck_bits"`
	IKBits     int    `yaml:"ik_bits"`
	Iterations int    `yaml:"iterations"`

	Expect struct {
		TOPc      Hex `yaml:"topc"`
		AKAExpect `yaml:",inline"`
	} `yaml:"expect"`
}

type CMACVector struct {
	Name    string `yaml:"name"`
	Key     Hex    `yaml:"key"`
	Message Hex    `yaml:"message"`
	BitLen  *int   `yaml:"bit_len"`
	TagBits int    `yaml:"tag_bits"`
	Tag     Hex    `yaml:"tag"`
}

// Params are the per-message fields shared by the confidentiality and
// integrity vectors.
type Params struct {
	Count     uint32 `yaml:"count"`
	Bearer    uint32 `yaml:"bearer"`
	Direction uint32 `yaml:"direction"`
}

type CipherVector struct {
	Name       string `yaml:"name"`
	Key        Hex    `yaml:"key"`
	Params     `yaml:",inline"`
	BitLen     *int `yaml:"bit_len"`
	Plaintext  Hex  `yaml:"plaintext"`
	Ciphertext Hex  `yaml:"ciphertext"`
}

type MACVector struct {
	Name    string `yaml:"name"`
	Key     Hex    `yaml:"key"`
	Params  `yaml:",inline"`
	BitLen  *int `yaml:"bit_len"`
	Message Hex  `yaml:"message"`
	MAC     Hex  `yaml:"mac"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func required(section string, idx int, name, field string, v []byte) error {
	if len(v) > 0 {
		return nil
	}
	if name == "" {
		name = fmt.Sprint(idx)
	}
	return fault.Invalid("config", fmt.Sprintf("%s[%s].%s", section, name, field), "is required")
}

func unnamed(section string, idx int, name string) error {
	if name != "" {
		return nil
	}
	return fault.Invalid("config", fmt.Sprintf("%s[%d].name", section, idx), "is required")
}

// Validate reports every missing field at once.  Lengths are left to the
// algorithms themselves.
func (c *Config) Validate() error {
	var errs []error
	for i, v := range c.Milenage {
		errs = append(errs,
			unnamed("milenage", i, v.Name),
			required("milenage", i, v.Name, "k", v.K),
			required("milenage", i, v.Name, "rand", v.RAND))
		if len(v.OP) == 0 && len(v.OPc) == 0 {
			errs = append(errs, fault.Invalid("config", "milenage["+v.Name+"]", "one of op or opc is required"))
		}
	}
	for i, v := range c.TUAK {
		errs = append(errs,
			unnamed("tuak", i, v.Name),
			required("tuak", i, v.Name, "k", v.K),
			required("tuak", i, v.Name, "top", v.TOP),
			required("tuak", i, v.Name, "rand", v.RAND))
	}
	for i, v := range c.CMAC {
		errs = append(errs,
			unnamed("cmac", i, v.Name),
			required("cmac", i, v.Name, "key", v.Key),
			required("cmac", i, v.Name, "tag", v.Tag))
	}
	for section, vs := range map[string][]CipherVector{"eea2": c.EEA2, "eea3": c.EEA3} {
		for i, v := range vs {
			errs = append(errs,
				unnamed(section, i, v.Name),
				required(section, i, v.Name, "key", v.Key),
				required(section, i, v.Name, "ciphertext", v.Ciphertext))
		}
	}
	for section, vs := range map[string][]MACVector{"eia2": c.EIA2, "eia3": c.EIA3} {
		for i, v := range vs {
			errs = append(errs,
				unnamed(section, i, v.Name),
				required(section, i, v.Name, "key", v.Key),
				required(section, i, v.Name, "mac", v.MAC))
		}
	}
	return errors.Join(errs...)
}

// Count returns the number of vectors in the file.
func (c *Config) Count() int {
	return len(c.Milenage) + len(c.TUAK) + len(c.CMAC) +
		len(c.EEA2) + len(c.EIA2) + len(c.EEA3) + len(c.EIA3)
}
