package lang

import (
	"regexp"

	appErr "xcoderunner/pkg/errors"
)

var javaClassPattern = regexp.MustCompile(`(?m)public\s+class\s+(\w+)`)

// JavaClassName returns the first public class declared in source.
func JavaClassName(source string) (string, error) {
	m := javaClassPattern.FindStringSubmatch(source)
	if m == nil {
		return "", appErr.New(appErr.EntryNameNotFound).WithMessage("Could not extract Java class name")
	}
	return m[1], nil
}

func javaProfile(flags []string) Profile {
	return Profile{
		Language:  Java,
		Extension: ".java",
		SourceName: func(source string) (string, error) {
			class, err := JavaClassName(source)
			if err != nil {
				return "", err
			}
			return class + ".java", nil
		},
		CompileArgs: func(sourceFile string) []string {
			return argv([]string{"javac"}, flags, []string{sourceFile})
		},
		RunArgs: func(sourceFile, _ string) []string {
			return []string{"java", "-cp", ".", baseName(sourceFile)}
		},
	}
}
