package lang

// Profile describes how one language is built and run inside a workspace.
type Profile struct {
	Language  Language
	Extension string

	// SourceName derives the file name from the source text. Nil means
	// "program" + Extension.
	SourceName func(source string) (string, error)

	// CompileArgs is nil for interpreted languages.
	CompileArgs func(sourceFile string) []string

	RunArgs func(sourceFile, dir string) []string

	// Artifact names the file a successful compile must leave behind.
	// Nil when no artifact check applies.
	Artifact func(sourceFile string) string
}

const defaultBaseName = "program"

// FileName resolves the name the source is written under.
func (p Profile) FileName(source string) (string, error) {
	if p.SourceName == nil {
		return defaultBaseName + p.Extension, nil
	}
	return p.SourceName(source)
}

func (p Profile) Compiled() bool {
	return p.CompileArgs != nil
}

func (p Profile) ArtifactName(sourceFile string) string {
	if p.Artifact == nil {
		return ""
	}
	return p.Artifact(sourceFile)
}

// Toolchain lists the host executables the profile spawns.
func (p Profile) Toolchain() []string {
	sample := defaultBaseName + p.Extension
	var tools []string
	if p.Compiled() {
		if args := p.CompileArgs(sample); len(args) > 0 {
			tools = append(tools, args[0])
		}
	}
	if p.Artifact == nil && p.RunArgs != nil {
		if args := p.RunArgs(sample, "."); len(args) > 0 {
			tools = append(tools, args[0])
		}
	}
	return tools
}

func (p Profile) complete() bool {
	return p.Extension != "" && p.RunArgs != nil
}
