package executor

import "testing"

func TestExecutionOutcomeText(t *testing.T) {
	cases := []struct {
		name string
		in   ExecutionOutcome
		want string
	}{
		{"completed", ExecutionOutcome{Status: ExecCompleted, Output: "  42\n"}, "42"},
		{"stderr", ExecutionOutcome{Status: ExecNonZeroExit, Output: "bad input\n", ExitCode: 2}, "bad input\nExit code: 2"},
		{"silent", ExecutionOutcome{Status: ExecNonZeroExit, ExitCode: 1}, "Exit code: 1"},
		{"timeout", ExecutionOutcome{Status: ExecTimedOut}, "Error: Code execution timed out"},
		{"spawn", ExecutionOutcome{Status: ExecSpawnError, Output: "no such file"}, "Error: no such file"},
		{"truncated", ExecutionOutcome{Status: ExecCompleted, Output: "aaaa", Truncated: true}, "aaaa\n" + truncationNotice},
	}
	for _, tc := range cases {
		if got := tc.in.Text(); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestNewJobCopiesInputs(t *testing.T) {
	inputs := []string{"1", "2"}
	job := NewJob("id", 0, "src", inputs)
	inputs[0] = "changed"
	if job.Inputs[0] != "1" {
		t.Fatalf("job inputs alias the caller's slice")
	}
}
