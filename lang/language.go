package lang

import (
	"fmt"
	"strings"

	appErr "xcoderunner/pkg/errors"
)

// Language is the closed set of languages the engine can build and run.
type Language int

const (
	Python Language = iota
	C
	Cpp
	Java
	JavaScript
	Go

	numLanguages
)

var languageNames = [...]string{
	Python:     "Python",
	C:          "C",
	Cpp:        "C++",
	Java:       "Java",
	JavaScript: "JavaScript",
	Go:         "Go",
}

// Adding a language without a display name fails to compile.
var (
	_ [int(numLanguages) - len(languageNames)]struct{}
	_ [len(languageNames) - int(numLanguages)]struct{}
)

var aliases = map[string]Language{
	"python":     Python,
	"python3":    Python,
	"py":         Python,
	"c":          C,
	"c++":        Cpp,
	"cpp":        Cpp,
	"java":       Java,
	"javascript": JavaScript,
	"js":         JavaScript,
	"node":       JavaScript,
	"go":         Go,
	"golang":     Go,
}

// Parse resolves a language by display name ("C++") or alias ("cpp").
func Parse(name string) (Language, error) {
	if l, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return l, nil
	}
	return 0, appErr.New(appErr.LanguageNotSupported).WithDetail("language", name)
}

// All returns every supported language in declaration order.
func All() []Language {
	out := make([]Language, 0, numLanguages)
	for l := Language(0); l < numLanguages; l++ {
		out = append(out, l)
	}
	return out
}

func (l Language) Valid() bool {
	return l >= 0 && l < numLanguages
}

func (l Language) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Language(%d)", int(l))
	}
	return languageNames[l]
}

// MarshalText encodes the display name.
func (l Language) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid language %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText accepts anything Parse accepts.
func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
