package compiler

import (
	"context"
	"os"
	"path/filepath"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/shade/compiler/front"
)

// BuildFile reads and builds the named file.
// Includes are resolved relative to its directory.
func BuildFile(ctx context.Context, name string) (*front.Builder, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Build(ctx, name, string(text), DirLoader(filepath.Dir(name)))
}

// Build builds text. The Builder is returned even if there were source errors,
// which are returned as front.ErrorList.
func Build(ctx context.Context, name, text string, load front.LoadFunc) (b *front.Builder, err error) {
	b = front.New()
	b.Name = name
	b.Load = load

	err = b.Build(ctx, text)

	return b, err
}

// DirLoader loads included files relative to dir.
// Absolute paths are used as is.
func DirLoader(dir string) front.LoadFunc {
	return func(path string) string {
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		text, err := os.ReadFile(path)
		if err != nil {
			tlog.V("load").Printw("load include", "path", path, "err", err)
			return ""
		}

		return string(text)
	}
}
