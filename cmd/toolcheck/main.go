// Command toolcheck verifies the host toolchains and, with -warm, runs a
// trivial program per language so the first real job does not pay for cold
// compiler caches.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"xcoderunner/executor"
	"xcoderunner/lang"
)

var helloPrograms = map[lang.Language]string{
	lang.Python:     `print("ok")`,
	lang.JavaScript: `console.log("ok")`,
	lang.C: `#include <stdio.h>
int main(void) { printf("ok\n"); return 0; }`,
	lang.Cpp: `#include <iostream>
int main() { std::cout << "ok" << std::endl; return 0; }`,
	lang.Go: `package main

import "fmt"

func main() { fmt.Println("ok") }`,
	lang.Java: `public class Main {
    public static void main(String[] args) { System.out.println("ok"); }
}`,
}

func main() {
	warm := flag.Bool("warm", false, "compile and run a hello program per available language")
	verbose := flag.Bool("v", false, "log executor activity")
	flag.Parse()

	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	registry := lang.Default()
	missing := map[lang.Language]bool{}
	for _, st := range registry.Preflight(exec.LookPath) {
		if st.Available() {
			fmt.Printf("%s %-10s %-6s %s\n", ok("✓"), st.Language, st.Tool, st.Path)
			continue
		}
		missing[st.Language] = true
		fmt.Printf("%s %-10s %-6s not found\n", bad("✗"), st.Language, st.Tool)
	}

	failed := len(missing) > 0
	if *warm {
		if !warmUp(registry, missing, *verbose) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func warmUp(registry *lang.Registry, skip map[lang.Language]bool, verbose bool) bool {
	logger := logrus.New()
	if !verbose {
		logger.SetLevel(logrus.WarnLevel)
	}

	dir, err := os.MkdirTemp("", "toolcheck-")
	if err != nil {
		color.Red("create temp dir: %v", err)
		return false
	}
	defer os.RemoveAll(dir)

	cfg := executor.DefaultConfig()
	cfg.BaseDir = dir
	cfg.CompileTimeout = time.Minute
	engine, err := executor.NewEngine(cfg, executor.WithProfiles(registry), executor.WithLogger(logger))
	if err != nil {
		color.Red("create engine: %v", err)
		return false
	}

	allOK := true
	for _, l := range lang.All() {
		if skip[l] {
			color.Yellow("- %-10s skipped", l)
			continue
		}
		start := time.Now()
		res, err := engine.Submit(context.Background(), l, helloPrograms[l], []string{""})
		switch {
		case err != nil:
			allOK = false
			color.Red("✗ %-10s %v", l, err)
		case len(res.Outputs) != 1 || res.Outputs[0] != "ok":
			allOK = false
			color.Red("✗ %-10s unexpected output %q", l, res.Outputs)
		default:
			color.Green("✓ %-10s warmed in %s", l, time.Since(start).Round(time.Millisecond))
		}
	}
	return allOK
}
