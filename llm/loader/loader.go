// Package loader walks a knowledge-base directory and turns every
// supported file into a Document, isolating per-file parse failures so
// one bad file never aborts the run.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"assistente/llm"
	"assistente/llm/parser"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
)

// Config controls a directory load.
type Config struct {
	// Dir is the knowledge-base directory to walk recursively.
	Dir string

	// Pattern optionally narrows the candidate files. It is matched
	// with doublestar against the slash path relative to Dir. Empty
	// means every file with a registered extension.
	Pattern string

	// Concurrency is the number of files parsed in parallel. Values
	// below 2 mean sequential loading. Parallelism never changes the
	// output: documents always come back in discovery order.
	Concurrency int
}

// Result holds the outcome of a directory load.
type Result struct {
	// Documents in discovery order, one per successfully parsed file.
	Documents []llm.Document

	// Failures lists the files that could not be parsed.
	Failures []llm.LoadFailure
}

// Load enumerates supported files under cfg.Dir and parses each one
// with the registry. A parse failure is recorded and loading moves on;
// a missing directory or an entirely unloadable directory is fatal.
func Load(ctx context.Context, reg *parser.Registry, cfg Config) (*Result, error) {
	info, err := os.Stat(cfg.Dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", llm.ErrMissingDirectory, cfg.Dir)
	}

	w := &walker{reg: reg, cfg: cfg}
	if err := filepath.WalkDir(cfg.Dir, w.visit); err != nil {
		return nil, err
	}

	docs, failures := parseAll(ctx, reg, w.paths, cfg.Concurrency)
	failures = append(w.failures, failures...)

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", llm.ErrNoDocuments, cfg.Dir)
	}

	return &Result{Documents: docs, Failures: failures}, nil
}

// walker collects candidate files in lexical (canonical) order, along
// with the entries the walk itself could not read.
type walker struct {
	reg *parser.Registry
	cfg Config

	paths    []string
	failures []llm.LoadFailure
}

func (w *walker) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		if d != nil && d.IsDir() {
			// Unreadable subdirectory: record it and move on, the
			// files we can see are still loaded.
			w.failures = append(w.failures, llm.LoadFailure{Path: path, Err: err.Error()})
			return fs.SkipDir
		}
		// Unreadable file entry: record it so it never vanishes
		// silently. Unsupported extensions would not be loaded anyway.
		if d == nil || w.reg.Supports(path) {
			w.failures = append(w.failures, llm.LoadFailure{Path: path, Err: err.Error()})
		}
		return nil
	}
	if d.IsDir() || !w.reg.Supports(path) {
		return nil
	}
	if w.cfg.Pattern != "" {
		rel, relErr := filepath.Rel(w.cfg.Dir, path)
		if relErr != nil {
			return nil
		}
		ok, matchErr := doublestar.Match(w.cfg.Pattern, filepath.ToSlash(rel))
		if matchErr != nil {
			return fmt.Errorf("invalid pattern %q: %w", w.cfg.Pattern, matchErr)
		}
		if !ok {
			return nil
		}
	}
	w.paths = append(w.paths, path)
	return nil
}

// parseAll parses every candidate, optionally with a worker pool.
// Results land in slots indexed by discovery position so the output
// order is canonical regardless of scheduling.
func parseAll(ctx context.Context, reg *parser.Registry, paths []string, concurrency int) ([]llm.Document, []llm.LoadFailure) {
	type slot struct {
		doc  *llm.Document
		fail *llm.LoadFailure
	}
	slots := make([]slot, len(paths))

	parseOne := func(i int) {
		doc, err := parseFile(ctx, reg, paths[i])
		if err != nil {
			slots[i].fail = &llm.LoadFailure{Path: paths[i], Err: err.Error()}
			return
		}
		slots[i].doc = doc
	}

	if concurrency < 2 {
		for i := range paths {
			parseOne(i)
		}
	} else {
		sem := make(chan struct{}, concurrency)
		var wg sync.WaitGroup
		for i := range paths {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()
				parseOne(i)
			}(i)
		}
		wg.Wait()
	}

	var docs []llm.Document
	var failures []llm.LoadFailure
	for _, s := range slots {
		if s.doc != nil {
			docs = append(docs, *s.doc)
		}
		if s.fail != nil {
			failures = append(failures, *s.fail)
		}
	}
	return docs, failures
}

// parseFile parses a single file into a Document with its source
// recorded in the metadata.
func parseFile(ctx context.Context, reg *parser.Registry, path string) (*llm.Document, error) {
	parsed, err := reg.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(parsed.Content) == "" {
		return nil, fmt.Errorf("document is empty")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	metadata := map[string]interface{}{
		"source":    path,
		"file_type": ext,
	}
	for k, v := range parsed.Metadata {
		metadata[k] = v
	}

	return &llm.Document{
		ID:        uuid.New().String(),
		Content:   parsed.Content,
		Source:    path,
		FileType:  ext,
		Title:     parsed.Title,
		Metadata:  metadata,
		CreatedAt: time.Now().Format(time.RFC3339),
	}, nil
}
