// Package jsonl reads and writes split documents as JSON Lines.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fwojciec/docblocks"
)

// Compile-time interface verification.
var _ docblocks.DocumentStore = (*Store)(nil)

// maxLineSize is the maximum size for a single JSONL line (16MB).
const maxLineSize = 16 * 1024 * 1024

// Store encodes one Document per line.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Save writes docs to w, one JSON object per line.
func (s *Store) Save(w io.Writer, docs []*docblocks.Document) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, doc := range docs {
		out := *doc
		if doc.Config != nil {
			out.Config = make(docblocks.FileConfig, len(doc.Config))
			for name, value := range doc.Config {
				out.Config[name] = markFloats(value)
			}
		}
		if err := enc.Encode(&out); err != nil {
			return fmt.Errorf("jsonl: encode %s: %w", doc.Path, err)
		}
	}
	return bw.Flush()
}

// Load reads documents written by Save. Blank lines are skipped. Integer
// config values come back as int64, floats as float64 and tuples as lists.
func (s *Store) Load(r io.Reader) ([]*docblocks.Document, error) {
	var docs []*docblocks.Document
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(line))
		dec.UseNumber()
		var doc docblocks.Document
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("jsonl: line %d: %w", lineNum, err)
		}
		for name, value := range doc.Config {
			doc.Config[name] = convertNumbers(value)
		}
		docs = append(docs, &doc)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("jsonl: %w", err)
	}
	return docs, nil
}

// markFloats writes whole floats with a trailing ".0" so Load can tell
// them from integers.
func markFloats(v any) any {
	switch v := v.(type) {
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return json.Number(strconv.FormatFloat(v, 'f', -1, 64) + ".0")
		}
		return v
	case docblocks.Tuple:
		return docblocks.Tuple(markFloatList(v))
	case []any:
		return markFloatList(v)
	default:
		return v
	}
}

func markFloatList(list []any) []any {
	out := make([]any, len(list))
	for i, item := range list {
		out[i] = markFloats(item)
	}
	return out
}

// convertNumbers turns json.Number values into int64 or float64.
func convertNumbers(v any) any {
	switch v := v.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case []any:
		for i := range v {
			v[i] = convertNumbers(v[i])
		}
		return v
	default:
		return v
	}
}
