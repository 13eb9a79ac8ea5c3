package emspace

// Config selects which rewriting stages run and which regions are skipped.
// It is passed by value; the package keeps no configuration state of its own.
type Config struct {
	// RemoveInternalBoldSpaces trims blanks just inside *, ** and *** spans.
	RemoveInternalBoldSpaces bool `mapstructure:"removeInternalBoldSpaces" yaml:"removeInternalBoldSpaces"`
	// SpaceBetweenChineseAndBold separates ** and *** spans from adjacent CJK text.
	SpaceBetweenChineseAndBold bool `mapstructure:"spaceBetweenChineseAndBold" yaml:"spaceBetweenChineseAndBold"`
	// SpaceBetweenEnglishAndBold separates ** and *** spans from adjacent ASCII letters and digits.
	SpaceBetweenEnglishAndBold bool `mapstructure:"spaceBetweenEnglishAndBold" yaml:"spaceBetweenEnglishAndBold"`
	// SpaceBetweenChineseAndItalic separates * spans from adjacent CJK text.
	SpaceBetweenChineseAndItalic bool `mapstructure:"spaceBetweenChineseAndItalic" yaml:"spaceBetweenChineseAndItalic"`
	// SkipCodeBlocks leaves fenced code blocks untouched.
	SkipCodeBlocks bool `mapstructure:"skipCodeBlocks" yaml:"skipCodeBlocks"`
	// SkipInlineCode leaves `code` spans untouched.
	SkipInlineCode bool `mapstructure:"skipInlineCode" yaml:"skipInlineCode"`
	// SkipFrontMatter leaves a leading front matter block untouched.
	SkipFrontMatter bool `mapstructure:"skipFrontMatter" yaml:"skipFrontMatter"`
}

// DefaultConfig returns the default configuration: everything enabled except
// spacing between English words and bold markers.
func DefaultConfig() Config {
	return Config{
		RemoveInternalBoldSpaces:     true,
		SpaceBetweenChineseAndBold:   true,
		SpaceBetweenEnglishAndBold:   false,
		SpaceBetweenChineseAndItalic: true,
		SkipCodeBlocks:               true,
		SkipInlineCode:               true,
		SkipFrontMatter:              true,
	}
}

func (c Config) boldSpacing() bool {
	return c.SpaceBetweenChineseAndBold || c.SpaceBetweenEnglishAndBold
}

// spacingWanted decides whether a space belongs between a bold marker and the
// neighbouring rune r. ok is false when there is no neighbour.
func spacingWanted(r rune, ok bool, cfg Config, excludeNewline bool) bool {
	if !ok || isBlank(r) {
		return false
	}
	if excludeNewline && (r == '\n' || r == '\r') {
		return false
	}
	switch {
	case IsCJK(r):
		return cfg.SpaceBetweenChineseAndBold
	case IsAlnum(r):
		return cfg.SpaceBetweenEnglishAndBold
	}
	return false
}

func shouldAddSpaceBefore(r rune, ok bool, cfg Config) bool {
	return spacingWanted(r, ok, cfg, false)
}

func shouldAddSpaceAfter(r rune, ok bool, cfg Config) bool {
	return spacingWanted(r, ok, cfg, true)
}
