// Package source discovers the documents of a batch run.
package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kedarbellare/lore/internal/logging"
	"github.com/kedarbellare/lore/pkg/lore"
	"github.com/kedarbellare/lore/pkg/lore/internalerr"
)

type record struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// LoadFromJSONL loads inputs from a file of {"id": ..., "text": ...} lines.
// Malformed lines and lines without an id are skipped with a warning.
func LoadFromJSONL(path string) ([]lore.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var inputs []lore.Input
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var r record
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			logging.Warn("skipping malformed line", "file", path, "line", n, "error", err)
			continue
		}
		if r.ID == "" {
			logging.Warn("skipping line without id", "file", path, "line", n)
			continue
		}
		inputs = append(inputs, lore.Input{ID: r.ID, Text: r.Text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no valid inputs found in %s: %w", path, internalerr.ErrInvalidInput)
	}
	return inputs, nil
}

// Walk loads every regular file under root whose name ends in ext (any
// file when ext is empty). Inputs are in lexical path order and identified
// by their slash-separated path relative to root.
func Walk(root, ext string) ([]lore.Input, error) {
	var inputs []lore.Input
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		inputs = append(inputs, lore.Input{ID: filepath.ToSlash(rel), Text: string(data)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return inputs, nil
}

// Load reads inputs from a JSONL file, a directory tree, or a single file.
func Load(path, ext string) ([]lore.Input, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return Walk(path, ext)
	}
	if strings.HasSuffix(path, ".jsonl") {
		return LoadFromJSONL(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []lore.Input{{ID: filepath.Base(path), Text: string(data)}}, nil
}
