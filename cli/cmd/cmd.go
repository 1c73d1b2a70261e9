package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/re0/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type streamsKey struct{}

// Streams are the standard streams used by commands.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams returns a new context.Context whose commands read and write
// through s. Nil members fall back to the process streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

// streamsFrom returns the streams stored by [WithStreams], completed with
// the kong writers and then the process streams.
func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if ktx := kongContextFrom(ctx); ktx != nil {
		if s.Out == nil {
			s.Out = ktx.Stdout
		}

		if s.Err == nil {
			s.Err = ktx.Stderr
		}
	}

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// stdinSource is the source name that reads from standard input.
const stdinSource = "-"

// source is an opened input.
type source struct {
	name string
	io.Reader
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens each distinct file in paths. Duplicates are detected by
// resolving symlinks and comparing device/inode pairs. All occurrences of
// "-" collapse into a single standard input source, placed last so it
// reads after all regular files. An empty list reads standard input.
//
// The returned close function releases every opened file.
func openSources(
	ctx context.Context,
	paths []string,
) (srcs []source, closeAll func(), err error) {
	var files []*os.File

	closeAll = func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	seen := make(map[fileKey]struct{})
	hasStdin := false

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		key, resolved, err := identify(path)
		if err != nil {
			closeAll()

			return nil, nil, pkg.ErrOpenSource.Wrapf("%s", path).Wrap(err)
		}

		// Stdin named by its device path is still read once, last.
		if key == stdinKey && stdinInfo != nil {
			hasStdin = true

			continue
		}

		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}

		file, err := os.Open(resolved)
		if err != nil {
			closeAll()

			return nil, nil, pkg.ErrOpenSource.Wrapf("%s", path).Wrap(err)
		}

		files = append(files, file)
		srcs = append(srcs, source{name: path, Reader: file})
	}

	if hasStdin {
		srcs = append(srcs, source{name: stdinSource, Reader: streamsFrom(ctx).In})
	}

	return srcs, closeAll, nil
}

// readSources returns the concatenated content of the distinct sources in
// paths, and a name describing them.
func readSources(ctx context.Context, paths []string) (name, text string, err error) {
	srcs, closeAll, err := openSources(ctx, paths)
	if err != nil {
		return "", "", err
	}
	defer closeAll()

	var (
		sb    strings.Builder
		names = make([]string, len(srcs))
	)

	for i, src := range srcs {
		names[i] = src.name

		if _, err := io.Copy(&sb, src); err != nil {
			return "", "", pkg.ErrOpenSource.Wrapf("%s", src.name).Wrap(err)
		}
	}

	return strings.Join(names, ","), sb.String(), nil
}

// identify resolves path to an absolute, symlink-free path and its file key.
func identify(path string) (fileKey, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fileKey{}, "", err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, "", err
	}

	key, ok := makeFileKey(info)
	if !ok {
		// Without inode data, the resolved path is the identity.
		key = fileKey{ino: xxh3.HashString(resolved)}
	}

	return key, resolved, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
