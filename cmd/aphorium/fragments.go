package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aphorium/aphorium/core"
	"github.com/aphorium/aphorium/ingestion"
)

// readFragments loads a fragment export. A .json file holds an array of
// fragment objects; anything else is read as TSV with the columns
// text, language, author, source_title, source_type (trailing columns
// optional, lines starting with # skipped).
func readFragments(path string) ([]ingestion.Fragment, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return readJSONFragments(path)
	}
	return readTSVFragments(path)
}

func readJSONFragments(path string) ([]ingestion.Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var fragments []ingestion.Fragment
	if err := json.Unmarshal(data, &fragments); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return fragments, nil
}

func readTSVFragments(path string) ([]ingestion.Fragment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var fragments []ingestion.Fragment
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if fields[0] == "" {
			return nil, fmt.Errorf("%s:%d: empty text column", path, lineNo)
		}

		fragment := ingestion.Fragment{Text: fields[0]}
		if len(fields) > 1 {
			fragment.Language = core.Language(fields[1])
		}
		if len(fields) > 2 {
			fragment.Author = fields[2]
		}
		if len(fields) > 3 {
			fragment.SourceTitle = fields[3]
		}
		if len(fields) > 4 {
			fragment.SourceType = fields[4]
		}
		fragments = append(fragments, fragment)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return fragments, nil
}
