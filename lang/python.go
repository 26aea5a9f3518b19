package lang

func pythonInterpreter(p platform) []string {
	if p.windows() {
		return []string{"python"}
	}
	return []string{"python3"}
}

func pythonProfile(interpreter []string) Profile {
	return Profile{
		Language:  Python,
		Extension: ".py",
		RunArgs: func(sourceFile, _ string) []string {
			return argv(interpreter, []string{sourceFile})
		},
	}
}
