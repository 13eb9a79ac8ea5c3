package emspace

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	osc8Start = "\x1b]8;;"
	osc8End   = "\x1b]8;;\x1b\\"
)

// DetectOSC8Support reports whether the terminal named by the environment
// likely renders OSC 8 hyperlinks. OSC8=0 turns detection off.
func DetectOSC8Support() bool {
	return detectOSC8(os.Getenv)
}

var osc8TermPrograms = map[string]bool{
	"iTerm.app": true,
	"WezTerm":   true,
	"vscode":    true,
}

func detectOSC8(getenv func(string) string) bool {
	switch {
	case getenv("OSC8") == "0":
		return false
	case getenv("DOMTERM") != "", getenv("WT_SESSION") != "":
		return true
	case osc8TermPrograms[getenv("TERM_PROGRAM")]:
		return true
	case strings.Contains(strings.ToLower(getenv("TERM")), "kitty"):
		return true
	}
	n, err := strconv.Atoi(getenv("VTE_VERSION"))
	return err == nil && n >= 5000
}

// hyperlink wraps text in an OSC 8 link to target.
func hyperlink(target, text string) string {
	if target == "" {
		return text
	}
	return osc8Start + target + "\x1b\\" + text + osc8End
}

// locationURL returns the link target for a hint path: URLs as given, local
// paths as absolute file:// URLs.
func locationURL(path string) string {
	if path == "" || path == "-" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
