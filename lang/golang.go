package lang

func goProfile(flags []string, p platform) Profile {
	artifact := func(sourceFile string) string {
		return baseName(sourceFile) + p.exeSuffix()
	}
	return Profile{
		Language:  Go,
		Extension: ".go",
		CompileArgs: func(sourceFile string) []string {
			return argv([]string{"go", "build"}, flags, []string{"-o", artifact(sourceFile), sourceFile})
		},
		RunArgs: func(sourceFile, dir string) []string {
			return []string{p.binaryPath(artifact(sourceFile), dir)}
		},
		Artifact: artifact,
	}
}
