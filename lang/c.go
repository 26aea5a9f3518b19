package lang

// cFamilyProfile covers C and C++: compile with warnings enabled to a native
// binary and run it directly.
func cFamilyProfile(l Language, ext, compiler string, flags []string, p platform) Profile {
	artifact := func(sourceFile string) string {
		return baseName(sourceFile) + p.exeSuffix()
	}
	return Profile{
		Language:  l,
		Extension: ext,
		CompileArgs: func(sourceFile string) []string {
			return argv([]string{compiler, "-Wall"}, flags, []string{sourceFile, "-o", artifact(sourceFile)})
		},
		RunArgs: func(sourceFile, dir string) []string {
			return []string{p.binaryPath(artifact(sourceFile), dir)}
		},
		Artifact: artifact,
	}
}
