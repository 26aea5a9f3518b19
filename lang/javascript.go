package lang

func javascriptProfile(interpreter []string) Profile {
	return Profile{
		Language:  JavaScript,
		Extension: ".js",
		RunArgs: func(sourceFile, _ string) []string {
			return argv(interpreter, []string{sourceFile})
		},
	}
}
