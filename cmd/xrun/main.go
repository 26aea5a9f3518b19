// Command xrun compiles and runs one source file locally, once per input.
//
//	xrun -lang go -in "1 2" -in "3 4" solution.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"xcoderunner/executor"
	"xcoderunner/internal"
	"xcoderunner/lang"
)

type inputList []string

func (l *inputList) String() string     { return fmt.Sprint(*l) }
func (l *inputList) Set(v string) error { *l = append(*l, v); return nil }

func main() {
	os.Exit(run())
}

func run() int {
	var inputs inputList
	language := flag.String("lang", "", "source language (python, c, cpp, java, javascript, go)")
	timeout := flag.Duration("timeout", 10*time.Second, "per-run time limit")
	restrict := flag.Bool("restrict", false, "reject restricted imports before running")
	verbose := flag.Bool("v", false, "log executor activity")
	flag.Var(&inputs, "in", "stdin for one run; repeatable")
	flag.Parse()

	if flag.NArg() != 1 || *language == "" {
		fmt.Fprintln(os.Stderr, "usage: xrun -lang <language> [-in <stdin>]... <file>")
		return 2
	}
	if len(inputs) == 0 {
		inputs = inputList{""}
	}

	l, err := lang.Parse(*language)
	if err != nil {
		return fail(err)
	}
	source, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		return fail(err)
	}
	if *restrict {
		if err := internal.NewValidator().Validate(l, string(source)); err != nil {
			return fail(err)
		}
	}

	logger := logrus.New()
	if !*verbose {
		logger.SetLevel(logrus.WarnLevel)
	}
	dir, err := os.MkdirTemp("", "xrun-")
	if err != nil {
		return fail(err)
	}
	defer os.RemoveAll(dir)

	cfg := executor.DefaultConfig()
	cfg.BaseDir = dir
	cfg.ExecTimeout = *timeout
	if len(inputs) > cfg.MaxInputs {
		cfg.MaxInputs = len(inputs)
	}
	engine, err := executor.NewEngine(cfg, executor.WithLogger(logger))
	if err != nil {
		return fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := engine.Submit(ctx, l, string(source), inputs)
	if err != nil {
		return fail(err)
	}
	if res.Compile.Failed() {
		color.Red("compilation failed")
		fmt.Println(res.Outputs[0])
		return 1
	}

	exit := 0
	for i, out := range res.Executions {
		header := color.GreenString
		switch out.Status {
		case executor.ExecNonZeroExit:
			header, exit = color.YellowString, 1
		case executor.ExecTimedOut, executor.ExecSpawnError:
			header, exit = color.RedString, 1
		}
		fmt.Println(header("#%d %s (%s)", i+1, out.Status, out.Duration.Round(time.Millisecond)))
		fmt.Println(out.Text())
	}
	return exit
}

func fail(err error) int {
	color.Red("xrun: %v", err)
	return 1
}
