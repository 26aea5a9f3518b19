package executor

import "xcoderunner/lang"

// Program is a source file written into a workspace together with the
// profile that knows how to build and run it.
type Program struct {
	Profile    lang.Profile
	SourceFile string
	Workspace  *Workspace
}
