package language

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// ErrNotDetected is returned when a file cannot be mapped to a supported profile.
var ErrNotDetected = errors.New("language not detected")

// Detect maps a file to one of the supported profiles.
// A recognised extension decides on its own: when it names only unsupported
// languages the file is not detected. Files without a known extension fall
// back to the shebang line, then to enry's content classifier restricted to
// the supported languages.
func Detect(filename, source string) (Profile, error) {
	content := []byte(source)
	blank := strings.TrimSpace(source) == ""

	if filepath.Ext(filename) != "" {
		if lang, safe := enry.GetLanguageByExtension(filename); safe {
			if p, ok := byEnryName(lang); ok {
				return p, nil
			}
			return Profile{}, fmt.Errorf("%w: %s", ErrNotDetected, lang)
		}
		// Ambiguous extensions such as ".h" yield several candidates.
		if all := enry.GetLanguagesByExtension(filename, content, nil); len(all) > 0 {
			candidates := supported(all)
			if len(candidates) == 0 {
				return Profile{}, fmt.Errorf("%w: %s", ErrNotDetected, strings.Join(all, ", "))
			}
			if len(candidates) == 1 || blank {
				p, _ := byEnryName(candidates[0])
				return p, nil
			}
			if lang, _ := enry.GetLanguageByClassifier(content, candidates); lang != "" {
				if p, ok := byEnryName(lang); ok {
					return p, nil
				}
			}
			return Profile{}, ErrNotDetected
		}
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		if p, ok := byEnryName(lang); ok {
			return p, nil
		}
		return Profile{}, fmt.Errorf("%w: %s", ErrNotDetected, lang)
	}

	if blank {
		return Profile{}, ErrNotDetected
	}
	if lang, _ := enry.GetLanguageByClassifier(content, names()); lang != "" {
		if p, ok := byEnryName(lang); ok {
			return p, nil
		}
	}
	return Profile{}, ErrNotDetected
}

// byEnryName resolves a linguist language name. The profile names already
// follow linguist spelling.
func byEnryName(name string) (Profile, bool) {
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Profile{}, false
}

func supported(langs []string) []string {
	var out []string
	for _, l := range langs {
		if _, ok := byEnryName(l); ok {
			out = append(out, l)
		}
	}
	return out
}

func names() []string {
	out := make([]string, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.Name)
	}
	return out
}
