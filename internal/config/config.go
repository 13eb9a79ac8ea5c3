// Package config loads emspace settings from defaults, a YAML file,
// EMSPACE_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"pkt.systems/emspace"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "EMSPACE"

// FileName is the per-project config file looked up in the working directory.
const FileName = ".emspace.yaml"

type setting struct {
	key   string
	env   string
	flag  string
	usage string
	field func(*emspace.Config) *bool
}

var settings = []setting{
	{
		key:   "removeInternalBoldSpaces",
		env:   "REMOVE_INTERNAL_BOLD_SPACES",
		flag:  "remove-internal-spaces",
		usage: "Remove blanks just inside *, ** and *** spans",
		field: func(c *emspace.Config) *bool { return &c.RemoveInternalBoldSpaces },
	},
	{
		key:   "spaceBetweenChineseAndBold",
		env:   "SPACE_BETWEEN_CHINESE_AND_BOLD",
		flag:  "space-chinese-bold",
		usage: "Add a space between bold markers and adjacent CJK text",
		field: func(c *emspace.Config) *bool { return &c.SpaceBetweenChineseAndBold },
	},
	{
		key:   "spaceBetweenEnglishAndBold",
		env:   "SPACE_BETWEEN_ENGLISH_AND_BOLD",
		flag:  "space-english-bold",
		usage: "Add a space between bold markers and adjacent ASCII letters or digits",
		field: func(c *emspace.Config) *bool { return &c.SpaceBetweenEnglishAndBold },
	},
	{
		key:   "spaceBetweenChineseAndItalic",
		env:   "SPACE_BETWEEN_CHINESE_AND_ITALIC",
		flag:  "space-chinese-italic",
		usage: "Add a space between italic markers and adjacent CJK text",
		field: func(c *emspace.Config) *bool { return &c.SpaceBetweenChineseAndItalic },
	},
	{
		key:   "skipCodeBlocks",
		env:   "SKIP_CODE_BLOCKS",
		flag:  "skip-code-blocks",
		usage: "Leave fenced code blocks untouched",
		field: func(c *emspace.Config) *bool { return &c.SkipCodeBlocks },
	},
	{
		key:   "skipInlineCode",
		env:   "SKIP_INLINE_CODE",
		flag:  "skip-inline-code",
		usage: "Leave `inline code` untouched",
		field: func(c *emspace.Config) *bool { return &c.SkipInlineCode },
	},
	{
		key:   "skipFrontMatter",
		env:   "SKIP_FRONT_MATTER",
		flag:  "skip-front-matter",
		usage: "Leave a leading front matter block untouched",
		field: func(c *emspace.Config) *bool { return &c.SkipFrontMatter },
	},
}

// Options configures Load.
type Options struct {
	// Path names an explicit config file, which must exist.
	Path string
	// Search lists candidate files tried in order when Path is empty. Nil
	// means DefaultSearchPaths.
	Search []string
	// Flags, when set, overrides settings whose flags were given explicitly.
	Flags *pflag.FlagSet
}

// Loaded is the effective configuration and where it came from.
type Loaded struct {
	Config emspace.Config
	// File is the config file that was read, or empty.
	File string
}

// BindFlags registers one boolean flag per setting, defaulting to
// emspace.DefaultConfig.
func BindFlags(flags *pflag.FlagSet) {
	def := emspace.DefaultConfig()
	for _, s := range settings {
		flags.Bool(s.flag, *s.field(&def), s.usage)
	}
}

// DefaultSearchPaths returns ./.emspace.yaml followed by the user config
// file under os.UserConfigDir.
func DefaultSearchPaths() []string {
	paths := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "emspace", "config.yaml"))
	}
	return paths
}

// Load merges defaults, the config file, the environment and flags.
func Load(opts Options) (Loaded, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	def := emspace.DefaultConfig()
	for _, s := range settings {
		v.SetDefault(s.key, *s.field(&def))
		if err := v.BindEnv(s.key, EnvPrefix+"_"+s.env); err != nil {
			return Loaded{}, fmt.Errorf("config: bind env %s: %w", s.env, err)
		}
		if opts.Flags == nil {
			continue
		}
		if f := opts.Flags.Lookup(s.flag); f != nil && f.Changed {
			if err := v.BindPFlag(s.key, f); err != nil {
				return Loaded{}, fmt.Errorf("config: bind flag --%s: %w", s.flag, err)
			}
		}
	}

	file, err := resolveFile(opts)
	if err != nil {
		return Loaded{}, err
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Loaded{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg emspace.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Loaded{}, fmt.Errorf("config: decode: %w", err)
	}
	return Loaded{Config: cfg, File: file}, nil
}

func resolveFile(opts Options) (string, error) {
	if opts.Path != "" {
		if _, err := os.Stat(opts.Path); err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		return opts.Path, nil
	}
	search := opts.Search
	if search == nil {
		search = DefaultSearchPaths()
	}
	for _, path := range search {
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		if !info.IsDir() {
			return path, nil
		}
	}
	return "", nil
}

// Marshal renders cfg as the YAML record Load reads back.
func Marshal(cfg emspace.Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# emspace settings; EMSPACE_* variables and flags override these.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes the YAML form of cfg to path. An existing file is only
// replaced when force is set.
func WriteFile(path string, cfg emspace.Config, force bool) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config: %s already exists", path)
		}
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
