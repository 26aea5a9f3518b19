package internal

import (
	"errors"
	"testing"

	"xcoderunner/lang"
)

func TestValidatorRejects(t *testing.T) {
	v := NewValidator()
	cases := []struct {
		lang lang.Language
		code string
		want string
	}{
		{lang.Python, "import os\nprint(1)", "import of 'os' is not allowed"},
		{lang.Python, "import math, subprocess", "import of 'subprocess' is not allowed"},
		{lang.Python, "from socket import socket", "import of 'socket' is not allowed"},
		{lang.Python, "x = __import__('ctypes')", "import of 'ctypes' is not allowed"},
		{lang.JavaScript, "const fs = require('fs');", "import of 'fs' is not allowed"},
		{lang.JavaScript, "import { exec } from \"node:child_process\";", "import of 'child_process' is not allowed"},
		{lang.JavaScript, "const p = require('fs/promises')", "import of 'fs' is not allowed"},
		{lang.Go, "package main\nimport (\n\t\"fmt\"\n\t\"os/exec\"\n)\n", "import of 'os/exec' is not allowed"},
		{lang.Go, "package main\nimport \"syscall\"\n", "import of 'syscall' is not allowed"},
		{lang.Java, "import java.io.*;\npublic class Main {}", "import of 'java.io' is not allowed"},
		{lang.Java, "public class Main { void f() { java.lang.Runtime.getRuntime(); } }", "import of 'java.lang.Runtime' is not allowed"},
		{lang.C, "#include <stdio.h>\n#include <unistd.h>\n", "import of '<unistd.h>' is not allowed"},
		{lang.Cpp, "# include \"sys/socket.h\"\n", "import of '<sys/socket.h>' is not allowed"},
	}

	for _, tc := range cases {
		err := v.Validate(tc.lang, tc.code)
		var se *SanitizationError
		if !errors.As(err, &se) {
			t.Fatalf("%s %q: expected SanitizationError, got %v", tc.lang, tc.code, err)
		}
		if se.Message != tc.want {
			t.Fatalf("%s %q: got %q, want %q", tc.lang, tc.code, se.Message, tc.want)
		}
	}
}

func TestValidatorAllows(t *testing.T) {
	v := NewValidator()
	cases := []struct {
		lang lang.Language
		code string
	}{
		{lang.Python, "import math\ncost = 3\nprint(cost)"},
		{lang.Python, "import ossaudiodev"},
		{lang.JavaScript, "const lines = require('readline');\nconsole.log('os')"},
		{lang.Go, "package main\nimport (\n\t\"bufio\"\n\t\"fmt\"\n)\nfunc main() { fmt.Println(\"os\") }\n"},
		{lang.Java, "import java.util.Scanner;\npublic class Main { public static void main(String[] a) { System.out.println(1); } }"},
		{lang.C, "#include <stdio.h>\nint main(){return 0;}"},
		{lang.Cpp, "#include <iostream>\nint main(){}"},
	}
	for _, tc := range cases {
		if err := v.Validate(tc.lang, tc.code); err != nil {
			t.Fatalf("%s %q: unexpected rejection: %v", tc.lang, tc.code, err)
		}
	}
}

func TestValidatorReportsOffendingLine(t *testing.T) {
	v := NewValidator()
	cases := []struct {
		lang lang.Language
		code string
		want string
	}{
		{lang.Python, "x = 1\n\n  import os\nprint(x)", "line 3: import os"},
		{lang.JavaScript, "const a = 1;\nconst cp = require('child_process');", "line 2: const cp = require('child_process');"},
		{lang.Go, "package main\n\nimport (\n\t\"fmt\"\n\t\"os/exec\"\n)\n", "line 5: \"os/exec\""},
		{lang.Go, "package main\nimport \"unsafe\"\n", "line 2: import \"unsafe\""},
		{lang.C, "#include <stdio.h>\n#include <unistd.h>", "line 2: #include <unistd.h>"},
	}
	for _, tc := range cases {
		err := v.Validate(tc.lang, tc.code)
		var se *SanitizationError
		if !errors.As(err, &se) {
			t.Fatalf("%s: expected SanitizationError, got %v", tc.lang, err)
		}
		if se.Details != tc.want {
			t.Fatalf("%s: details = %q, want %q", tc.lang, se.Details, tc.want)
		}
		if se.Error() != se.Message+": "+tc.want {
			t.Fatalf("%s: Error() = %q", tc.lang, se.Error())
		}
	}
}
