package internal

import (
	"fmt"
	"regexp"
	"strings"

	"xcoderunner/lang"
)

type SanitizationError struct {
	Message string
	Details string
}

func (e *SanitizationError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + ": " + e.Details
}

var restrictedImports = map[lang.Language][]string{
	lang.Python: {"os", "sys", "subprocess", "socket", "shutil", "ctypes", "multiprocessing", "threading"},
	lang.JavaScript: {"fs", "child_process", "os", "net", "http", "https", "dgram", "dns", "tls",
		"repl", "vm", "worker_threads"},
	lang.Go: {"os", "os/exec", "syscall", "net", "net/http", "unsafe"},
	lang.Java: {"java.io", "java.net", "java.lang.reflect", "java.lang.Runtime", "java.lang.System",
		"java.lang.ProcessBuilder", "java.lang.Thread"},
	lang.C:   cHeaders,
	lang.Cpp: cHeaders,
}

var cHeaders = []string{
	"<sys/types.h>", "<sys/socket.h>", "<netdb.h>", "<arpa/inet.h>", "<netinet/in.h>",
	"<unistd.h>", "<process.h>", "<windows.h>", "<winsock2.h>", "<ws2tcpip.h>",
	"<pthread.h>", "<signal.h>", "<fcntl.h>", "<sys/stat.h>", "<sys/wait.h>", "<sys/mman.h>",
}

type rule struct {
	name    string
	pattern *regexp.Regexp
}

// Validator rejects snippets that pull in blacklisted modules. It is a
// static text check, not a sandbox.
type Validator struct {
	rules map[lang.Language][]rule
}

// NewValidator compiles the restricted-import rules for every language.
func NewValidator() *Validator {
	v := &Validator{rules: make(map[lang.Language][]rule, len(restrictedImports))}
	for l, names := range restrictedImports {
		for _, name := range names {
			v.rules[l] = append(v.rules[l], rule{name: name, pattern: importPattern(l, name)})
		}
	}
	return v
}

func importPattern(l lang.Language, name string) *regexp.Regexp {
	q := regexp.QuoteMeta(name)
	switch l {
	case lang.Python:
		return regexp.MustCompile(
			`(?m)^\s*import\s+(?:[\w.]+(?:\s+as\s+\w+)?\s*,\s*)*` + q + `\b` +
				`|^\s*from\s+` + q + `(?:\.[\w.]+)?\s+import\b` +
				`|__import__\(\s*['"]` + q + `['"]`)
	case lang.JavaScript:
		spec := `['"](?:node:)?` + q + `(?:/[^'"]*)?['"]`
		return regexp.MustCompile(`(?:require|import)\s*\(\s*` + spec + `|(?:from|import)\s+` + spec)
	case lang.Go:
		// matched against extracted import paths
		return regexp.MustCompile(`^` + q + `$`)
	case lang.Java:
		return regexp.MustCompile(`\b` + q + `\b`)
	default:
		inner := strings.Trim(name, "<>")
		return regexp.MustCompile(`(?m)^\s*#\s*include\s*[<"]\s*` + regexp.QuoteMeta(inner) + `\s*[>"]`)
	}
}

var (
	goImportBlock  = regexp.MustCompile(`(?s)\bimport\s*\((.*?)\)`)
	goImportSingle = regexp.MustCompile(`\bimport\s+(?:[\w.]+\s+)?"([^"]+)"`)
	goImportPath   = regexp.MustCompile(`"([^"]+)"`)
)

type goImport struct {
	path   string
	offset int
}

func goImports(code string) []goImport {
	var imports []goImport
	for _, block := range goImportBlock.FindAllStringSubmatchIndex(code, -1) {
		body := code[block[2]:block[3]]
		for _, m := range goImportPath.FindAllStringSubmatchIndex(body, -1) {
			imports = append(imports, goImport{path: body[m[2]:m[3]], offset: block[2] + m[0]})
		}
	}
	for _, m := range goImportSingle.FindAllStringSubmatchIndex(code, -1) {
		imports = append(imports, goImport{path: code[m[2]:m[3]], offset: m[0]})
	}
	return imports
}

// Validate returns a *SanitizationError naming the first restricted import
// found, or nil. Details carries the offending source line.
func (v *Validator) Validate(l lang.Language, code string) error {
	rules := v.rules[l]
	if len(rules) == 0 {
		return nil
	}

	var imports []goImport
	if l == lang.Go {
		imports = goImports(code)
	}

	for _, r := range rules {
		offset := -1
		if l == lang.Go {
			for _, imp := range imports {
				if r.pattern.MatchString(imp.path) {
					offset = imp.offset
					break
				}
			}
		} else if loc := r.pattern.FindStringIndex(code); loc != nil {
			// (?m)^\s* can start the match on an earlier blank line
			match := code[loc[0]:loc[1]]
			offset = loc[0] + len(match) - len(strings.TrimLeft(match, " \t\r\n"))
		}
		if offset >= 0 {
			return &SanitizationError{
				Message: fmt.Sprintf("import of '%s' is not allowed", r.name),
				Details: lineAt(code, offset),
			}
		}
	}
	return nil
}

func lineAt(code string, offset int) string {
	start := strings.LastIndexByte(code[:offset], '\n') + 1
	end := len(code)
	if i := strings.IndexByte(code[offset:], '\n'); i >= 0 {
		end = offset + i
	}
	n := strings.Count(code[:offset], "\n") + 1
	return fmt.Sprintf("line %d: %s", n, strings.TrimSpace(code[start:end]))
}
