package lang

// ToolStatus reports whether one host executable a profile needs was found.
type ToolStatus struct {
	Language Language
	Tool     string
	Path     string
	Err      error
}

func (s ToolStatus) Available() bool {
	return s.Err == nil
}

// Preflight resolves every tool of every profile with lookPath, usually
// exec.LookPath.
func (r *Registry) Preflight(lookPath func(string) (string, error)) []ToolStatus {
	var out []ToolStatus
	for _, p := range r.profiles {
		for _, tool := range p.Toolchain() {
			path, err := lookPath(tool)
			out = append(out, ToolStatus{Language: p.Language, Tool: tool, Path: path, Err: err})
		}
	}
	return out
}
