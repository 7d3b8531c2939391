package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/shade/compiler"
	"github.com/slowlang/shade/compiler/format"
	"github.com/slowlang/shade/compiler/front"
)

func main() {
	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "build files and print the parsed declarations",
		Action:      parseAct,
		Args:        cli.Args{},
	}

	checkCmd := &cli.Command{
		Name:        "check",
		Description: "build files and report errors",
		Action:      checkAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "shade",
		Description: "shade is a tool for checking shader source code",
		Commands: []*cli.Command{
			parseCmd,
			checkCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		b, err := compiler.BuildFile(ctx, a)
		if n := report(a, err); n != 0 {
			return errors.New("%v: %d errors", a, n)
		}
		if err != nil {
			return errors.Wrap(err, "build %v", a)
		}

		res, err := format.Format(ctx, nil, b.Shader)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s", res)
	}

	return nil
}

func checkAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	total := 0

	for _, a := range c.Args {
		_, err := compiler.BuildFile(ctx, a)

		n := report(a, err)
		if n == 0 && err != nil {
			return errors.Wrap(err, "build %v", a)
		}

		total += n
	}

	if total != 0 {
		return errors.New("%d errors", total)
	}

	return nil
}

// report prints source errors with the lines they point to.
func report(name string, err error) int {
	list, ok := err.(front.ErrorList)
	if !ok {
		return 0
	}

	texts := map[string]string{}
	dir := filepath.Dir(name)

	for _, e := range list.Sorted() {
		path := e.File
		if path != name && !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		src, ok := texts[path]
		if !ok {
			text, _ := os.ReadFile(path)
			src = string(text)
			texts[path] = src
		}

		fmt.Fprintf(os.Stderr, "%s", e.Context(src))
	}

	return len(list)
}
