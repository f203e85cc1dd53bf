package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// vocabExtensions are the file extensions picked up when scanning a directory.
var vocabExtensions = []string{".csv", ".tsv", ".txt"}

// SourceFile is the raw content of one vocabulary file.
type SourceFile struct {
	Name string
	Path string
	Data []byte
}

// FileLoader reads vocabulary files from a file or directory.
type FileLoader struct {
	root     string
	excludes []string
}

// NewFileLoader creates a loader rooted at path. Files whose base name is in
// excludes are skipped.
func NewFileLoader(path string, excludes ...string) (*FileLoader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat path %s: %w", path, err)
	}
	return &FileLoader{root: path, excludes: excludes}, nil
}

// LoadAll reads every vocabulary file under the root, walking subdirectories.
// Unreadable files are skipped and reported in the returned slice of warnings.
func (l *FileLoader) LoadAll() ([]SourceFile, []error, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat path %s: %w", l.root, err)
	}

	if !info.IsDir() {
		file, err := readSource(l.root)
		if err != nil {
			return nil, nil, err
		}
		return []SourceFile{file}, nil, nil
	}

	var files []SourceFile
	var warnings []error
	err = filepath.WalkDir(l.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			warnings = append(warnings, err)
			return nil
		}
		if d.IsDir() || !IsVocabularyFile(d.Name()) || slices.Contains(l.excludes, d.Name()) {
			return nil
		}

		file, err := readSource(path)
		if err != nil {
			warnings = append(warnings, err)
			return nil
		}
		files = append(files, file)
		return nil
	})
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to walk %s: %w", l.root, err)
	}

	return files, warnings, nil
}

// IsVocabularyFile reports whether name has a supported extension.
func IsVocabularyFile(name string) bool {
	return slices.Contains(vocabExtensions, strings.ToLower(filepath.Ext(name)))
}

// ReadFile reads a single vocabulary file. A missing file is not an error;
// it returns nil data and false.
func ReadFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, true, nil
}

func readSource(path string) (SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SourceFile{}, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return SourceFile{Name: name, Path: path, Data: data}, nil
}
