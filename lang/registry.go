package lang

import (
	"fmt"

	"github.com/google/shlex"

	appErr "xcoderunner/pkg/errors"
)

// Options tunes the host commands. The zero value reproduces the stock table.
type Options struct {
	// GOOS overrides runtime.GOOS for artifact and interpreter naming.
	GOOS string

	// PythonCmd and NodeCmd replace the interpreter, e.g. "python3 -u".
	PythonCmd string
	NodeCmd   string

	// CompileFlags are appended after the compiler's fixed flags, split with
	// shell quoting rules.
	CompileFlags map[Language]string
}

// Registry is the immutable language table. Safe for concurrent use.
type Registry struct {
	profiles [numLanguages]Profile
}

// NewRegistry builds the table for the given options.
func NewRegistry(opts Options) (*Registry, error) {
	p := newPlatform(opts.GOOS)

	python, err := commandOr(opts.PythonCmd, pythonInterpreter(p))
	if err != nil {
		return nil, fmt.Errorf("parse python command: %w", err)
	}
	node, err := commandOr(opts.NodeCmd, []string{"node"})
	if err != nil {
		return nil, fmt.Errorf("parse node command: %w", err)
	}

	flags := make(map[Language][]string, len(opts.CompileFlags))
	for l, raw := range opts.CompileFlags {
		parsed, err := shlex.Split(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s compile flags: %w", l, err)
		}
		flags[l] = parsed
	}

	r := &Registry{profiles: buildProfiles(p, python, node, flags)}
	for l, prof := range r.profiles {
		if !prof.complete() || prof.Language != Language(l) {
			panic(fmt.Sprintf("lang: profile for %s is incomplete", Language(l)))
		}
	}
	return r, nil
}

// Default returns the registry for the host platform with stock commands.
func Default() *Registry {
	r, err := NewRegistry(Options{})
	if err != nil {
		panic(err)
	}
	return r
}

// buildProfiles must list every language; omitting the last one changes the
// literal's length and fails to compile.
func buildProfiles(p platform, python, node []string, flags map[Language][]string) [numLanguages]Profile {
	return [...]Profile{
		Python:     pythonProfile(python),
		C:          cFamilyProfile(C, ".c", "gcc", flags[C], p),
		Cpp:        cFamilyProfile(Cpp, ".cpp", "g++", flags[Cpp], p),
		Java:       javaProfile(flags[Java]),
		JavaScript: javascriptProfile(node),
		Go:         goProfile(flags[Go], p),
	}
}

func commandOr(raw string, fallback []string) ([]string, error) {
	if raw == "" {
		return fallback, nil
	}
	parts, err := shlex.Split(raw)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return fallback, nil
	}
	return parts, nil
}

// Resolve returns the profile for l.
func (r *Registry) Resolve(l Language) (Profile, error) {
	if !l.Valid() {
		return Profile{}, appErr.New(appErr.LanguageNotSupported).WithDetail("language", l.String())
	}
	return r.profiles[l], nil
}

// Lookup parses name and resolves its profile.
func (r *Registry) Lookup(name string) (Profile, error) {
	l, err := Parse(name)
	if err != nil {
		return Profile{}, err
	}
	return r.Resolve(l)
}

// Profiles lists all profiles in language order.
func (r *Registry) Profiles() []Profile {
	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles[:])
	return out
}
