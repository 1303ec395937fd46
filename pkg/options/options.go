// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package options

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ENV_PREFIX is the prefix of environment variables providing options.
const ENV_PREFIX = "GOTOPROG"

// Endianness determines the byte order of the target machine.
type Endianness string

const (
	// LITTLE_ENDIAN byte order (the default).
	LITTLE_ENDIAN Endianness = "little"
	// BIG_ENDIAN byte order.
	BIG_ENDIAN Endianness = "big"
)

// Encoding determines how arithmetic is interpreted.
type Encoding string

const (
	// BITVECTOR arithmetic wraps around at the width of each type (the
	// default).
	BITVECTOR Encoding = "bv"
	// INTEGER arithmetic is unbounded.
	INTEGER Encoding = "ir"
)

// Options captures the resolved configuration of a session.
type Options struct {
	// Source files to translate.
	Sources []string `yaml:"sources"`
	// Byte order of the target machine.
	Endianness Endianness `yaml:"endianness"`
	// Arithmetic encoding.
	Encoding Encoding `yaml:"encoding"`
	// Width (in bits) of int, long and pointers.
	WordSize uint `yaml:"word-size"`
	// Entry function called by __ESBMC_main.
	Function string `yaml:"function"`
	// Number of times to unwind each loop, or 0 for no unwinding.
	Unwind uint `yaml:"unwind"`
	// Whether unwinding should assert (rather than assume) loops terminate.
	UnwindingAssertions bool `yaml:"unwinding-assertions"`
	// Whether user assertions are retained.
	Assertions bool `yaml:"assertions"`
	// Whether to add data race checks.
	DataRacesCheck bool `yaml:"data-races-check"`
	// Whether to remove SKIP instructions.
	RemoveSkip bool `yaml:"remove-skip"`
}

// Default returns the options used when nothing else is specified.
func Default() Options {
	return Options{
		Endianness:          LITTLE_ENDIAN,
		Encoding:            BITVECTOR,
		WordSize:            32,
		Function:            "main",
		UnwindingAssertions: true,
		Assertions:          true,
	}
}

// IsBigEndian checks whether the target is big endian.
func (p Options) IsBigEndian() bool {
	return p.Endianness == BIG_ENDIAN
}

// IsInteger checks whether arithmetic is unbounded.
func (p Options) IsInteger() bool {
	return p.Encoding == INTEGER
}

// Validate these options.
func (p *Options) Validate() error {
	switch {
	case len(p.Sources) == 0:
		return errors.New("no source file")
	case p.Endianness != LITTLE_ENDIAN && p.Endianness != BIG_ENDIAN:
		return errors.Errorf("unknown endianness \"%s\"", p.Endianness)
	case p.Encoding != BITVECTOR && p.Encoding != INTEGER:
		return errors.Errorf("unknown encoding \"%s\"", p.Encoding)
	case p.WordSize != 16 && p.WordSize != 32 && p.WordSize != 64:
		return errors.Errorf("unsupported word size %d", p.WordSize)
	case p.Function == "":
		return errors.New("no entry function")
	}
	//
	return nil
}

// YAML returns a YAML rendering of these options.
func (p *Options) YAML() (string, error) {
	bytes, err := yaml.Marshal(p)
	if err != nil {
		return "", errors.Wrap(err, "encoding options")
	}
	//
	return string(bytes), nil
}

// Flags constructs a flag set declaring every option.
func Flags() *pflag.FlagSet {
	var fs = pflag.NewFlagSet("gotoprog", pflag.ContinueOnError)
	//
	fs.SetOutput(io.Discard)
	fs.Bool("big-endian", false, "allow mapping of bytes into words (big endian)")
	fs.Bool("little-endian", false, "allow mapping of bytes into words (little endian)")
	fs.Bool("bv", false, "use bit-vector arithmetic")
	fs.Bool("ir", false, "use integer arithmetic")
	fs.Bool("16", false, "set width of int to 16 bits")
	fs.Bool("32", false, "set width of int to 32 bits")
	fs.Bool("64", false, "set width of int to 64 bits")
	fs.String("function", "main", "set main function name")
	fs.Uint("unwind", 0, "unwind loops this many times")
	fs.Bool("no-unwinding-assertions", false, "do not generate unwinding assertions")
	fs.Bool("no-assertions", false, "ignore user assertions")
	fs.Bool("data-races-check", false, "enable data race checks")
	fs.Bool("remove-skip", false, "remove skip instructions")
	fs.String("config", "", "read options from file")
	//
	return fs
}

// Parse an argument vector (excluding the program name) into options.  Flags
// take precedence over GOTOPROG_* environment variables, which in turn take
// precedence over the options file given with --config.
func Parse(args []string) (*Options, error) {
	var fs = Flags()
	//
	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, "parsing arguments")
	}
	//
	return Resolve(fs)
}

// Resolve the options for an already parsed flag set.
func Resolve(fs *pflag.FlagSet) (*Options, error) {
	var (
		v        = viper.New()
		defaults = Default()
	)
	//
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("sources", []string{})
	v.SetDefault("endianness", string(defaults.Endianness))
	v.SetDefault("encoding", string(defaults.Encoding))
	v.SetDefault("word-size", defaults.WordSize)
	v.SetDefault("unwinding-assertions", defaults.UnwindingAssertions)
	v.SetDefault("assertions", defaults.Assertions)
	v.SetDefault("data-races-check", false)
	v.SetDefault("remove-skip", false)
	//
	for _, key := range []string{"function", "unwind", "data-races-check", "remove-skip"} {
		if err := v.BindPFlag(key, fs.Lookup(key)); err != nil {
			return nil, errors.Wrapf(err, "binding flag --%s", key)
		}
	}
	//
	if config, _ := fs.GetString("config"); config != "" {
		log.Debugf("reading options from %s", config)
		//
		v.SetConfigFile(config)
		//
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading %s", config)
		}
	}
	//
	if err := overrideFromFlags(v, fs); err != nil {
		return nil, err
	}
	//
	opts := &Options{
		Sources:             v.GetStringSlice("sources"),
		Endianness:          Endianness(v.GetString("endianness")),
		Encoding:            Encoding(v.GetString("encoding")),
		WordSize:            v.GetUint("word-size"),
		Function:            v.GetString("function"),
		Unwind:              v.GetUint("unwind"),
		UnwindingAssertions: v.GetBool("unwinding-assertions"),
		Assertions:          v.GetBool("assertions"),
		DataRacesCheck:      v.GetBool("data-races-check"),
		RemoveSkip:          v.GetBool("remove-skip"),
	}
	//
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	//
	return opts, nil
}

// Apply those flags which do not correspond directly to a single option.
func overrideFromFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var (
		big, _    = fs.GetBool("big-endian")
		little, _ = fs.GetBool("little-endian")
		bv, _     = fs.GetBool("bv")
		ir, _     = fs.GetBool("ir")
	)
	//
	switch {
	case big && little:
		return errors.New("conflicting endianness (--big-endian and --little-endian)")
	case big:
		v.Set("endianness", string(BIG_ENDIAN))
	case little:
		v.Set("endianness", string(LITTLE_ENDIAN))
	}
	//
	switch {
	case bv && ir:
		return errors.New("conflicting encodings (--bv and --ir)")
	case bv:
		v.Set("encoding", string(BITVECTOR))
	case ir:
		v.Set("encoding", string(INTEGER))
	}
	//
	var widths []uint
	//
	for _, width := range []uint{16, 32, 64} {
		if set, _ := fs.GetBool(fmt.Sprintf("%d", width)); set {
			widths = append(widths, width)
		}
	}
	//
	if len(widths) > 1 {
		return errors.New("conflicting word sizes")
	} else if len(widths) == 1 {
		v.Set("word-size", widths[0])
	}
	//
	if set, _ := fs.GetBool("no-unwinding-assertions"); set {
		v.Set("unwinding-assertions", false)
	}
	//
	if set, _ := fs.GetBool("no-assertions"); set {
		v.Set("assertions", false)
	}
	//
	if fs.NArg() > 0 {
		v.Set("sources", fs.Args())
	}
	//
	return nil
}
