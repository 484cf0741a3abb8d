// Package fsutil provides the file system walks used to discover and watch
// manifests.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// FindFilesByExtension recursively searches rootPath for files ending with
// extension and returns their paths, sorted. Hidden directories such as
// .git are skipped.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := walk(rootPath, func(path string, d fs.DirEntry) {
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// Dirs returns rootPath and every directory below it, skipping hidden ones.
func Dirs(rootPath string) ([]string, error) {
	var dirs []string
	err := walk(rootPath, func(path string, d fs.DirEntry) {
		if d.IsDir() {
			dirs = append(dirs, path)
		}
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

func walk(rootPath string, visit func(path string, d fs.DirEntry)) error {
	return filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != rootPath && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		visit(path, d)
		return nil
	})
}
