package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"assistente/llm"
	"assistente/llm/parser"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "guia.txt", "Como abrir um chamado de suporte.")
	writeFile(t, dir, "quebrado.pdf", "isto nao e um PDF de verdade")

	result, err := Load(context.Background(), parser.DefaultRegistry(), Config{Dir: dir})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(result.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(result.Documents))
	}
	if !strings.HasSuffix(result.Documents[0].Source, "guia.txt") {
		t.Errorf("unexpected document source %q", result.Documents[0].Source)
	}

	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failures))
	}
	if !strings.HasSuffix(result.Failures[0].Path, "quebrado.pdf") {
		t.Errorf("failure should name the broken file, got %q", result.Failures[0].Path)
	}
	if result.Failures[0].Err == "" {
		t.Error("failure should carry a reason")
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(context.Background(), parser.DefaultRegistry(), Config{
		Dir: filepath.Join(t.TempDir(), "nao_existe"),
	})
	if !errors.Is(err, llm.ErrMissingDirectory) {
		t.Errorf("expected ErrMissingDirectory, got %v", err)
	}
}

func TestLoadNoDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ignorado.xyz", "extensao sem parser")

	_, err := Load(context.Background(), parser.DefaultRegistry(), Config{Dir: dir})
	if !errors.Is(err, llm.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestLoadEmptyFileIsFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cheio.txt", "conteudo valido")
	writeFile(t, dir, "vazio.txt", "   \n  ")

	result, err := Load(context.Background(), parser.DefaultRegistry(), Config{Dir: dir})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Documents) != 1 {
		t.Errorf("expected 1 document, got %d", len(result.Documents))
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure for the empty file, got %d", len(result.Failures))
	}
	if !strings.HasSuffix(result.Failures[0].Path, "vazio.txt") {
		t.Errorf("unexpected failure path %q", result.Failures[0].Path)
	}
}

// Parallel loading must not change the output: documents come back in
// lexical walk order no matter how files are scheduled.
func TestLoadConcurrencyKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	names := []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt", "f.txt"}
	for _, name := range names {
		writeFile(t, dir, name, "conteudo de "+name)
	}

	sequential, err := Load(context.Background(), parser.DefaultRegistry(), Config{Dir: dir, Concurrency: 1})
	if err != nil {
		t.Fatalf("sequential Load: %v", err)
	}
	parallel, err := Load(context.Background(), parser.DefaultRegistry(), Config{Dir: dir, Concurrency: 4})
	if err != nil {
		t.Fatalf("parallel Load: %v", err)
	}

	if len(parallel.Documents) != len(names) {
		t.Fatalf("expected %d documents, got %d", len(names), len(parallel.Documents))
	}
	for i := range sequential.Documents {
		if sequential.Documents[i].Source != parallel.Documents[i].Source {
			t.Errorf("position %d differs: %q vs %q",
				i, sequential.Documents[i].Source, parallel.Documents[i].Source)
		}
	}
	for i, name := range names {
		if !strings.HasSuffix(parallel.Documents[i].Source, name) {
			t.Errorf("expected %s at position %d, got %q", name, i, parallel.Documents[i].Source)
		}
	}
}

func TestLoadPatternFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "politicas/ferias.md", "# Férias\nRegras de férias.")
	writeFile(t, dir, "politicas/ferias.txt", "versao texto")
	writeFile(t, dir, "outros/vpn.md", "# VPN\nComo configurar.")

	result, err := Load(context.Background(), parser.DefaultRegistry(), Config{
		Dir:     dir,
		Pattern: "politicas/**",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Documents) != 2 {
		t.Fatalf("expected 2 documents under politicas/, got %d", len(result.Documents))
	}
	for _, doc := range result.Documents {
		if !strings.Contains(doc.Source, "politicas") {
			t.Errorf("pattern leaked %q into the result", doc.Source)
		}
	}
}

// fakeDirEntry stands in for a walk entry that could not be read.
type fakeDirEntry struct {
	name string
	dir  bool
}

func (f fakeDirEntry) Name() string               { return f.name }
func (f fakeDirEntry) IsDir() bool                { return f.dir }
func (f fakeDirEntry) Type() fs.FileMode          { return 0 }
func (f fakeDirEntry) Info() (fs.FileInfo, error) { return nil, errors.New("not statable") }

// A walk error on a file entry must land in Failures, never vanish.
func TestWalkErrorsAreRecorded(t *testing.T) {
	w := &walker{reg: parser.DefaultRegistry()}
	readErr := errors.New("input/output error")

	if err := w.visit("base/nota.txt", fakeDirEntry{name: "nota.txt"}, readErr); err != nil {
		t.Fatalf("visit on a broken file should keep walking, got %v", err)
	}
	if len(w.paths) != 0 {
		t.Fatalf("broken file must not become a candidate, got %v", w.paths)
	}
	if len(w.failures) != 1 {
		t.Fatalf("expected 1 failure for the broken file, got %d", len(w.failures))
	}
	if w.failures[0].Path != "base/nota.txt" {
		t.Errorf("failure path = %q, want base/nota.txt", w.failures[0].Path)
	}
	if !strings.Contains(w.failures[0].Err, "input/output error") {
		t.Errorf("failure should carry the walk error, got %q", w.failures[0].Err)
	}

	// An unreadable subdirectory is recorded and skipped.
	if err := w.visit("base/restrito", fakeDirEntry{name: "restrito", dir: true}, readErr); !errors.Is(err, fs.SkipDir) {
		t.Errorf("expected fs.SkipDir for a broken directory, got %v", err)
	}
	if len(w.failures) != 2 {
		t.Fatalf("expected the broken directory in the failures, got %d", len(w.failures))
	}

	// Files no parser would load stay out of the failure list.
	if err := w.visit("base/programa.exe", fakeDirEntry{name: "programa.exe"}, readErr); err != nil {
		t.Fatalf("visit: %v", err)
	}
	if len(w.failures) != 2 {
		t.Errorf("unsupported extension should not be recorded, got %d failures", len(w.failures))
	}
}

func TestLoadDocumentMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "guia.txt", "Primeira linha\nSegunda linha")

	result, err := Load(context.Background(), parser.DefaultRegistry(), Config{Dir: dir})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	doc := result.Documents[0]
	if doc.ID == "" {
		t.Error("document should get an ID")
	}
	if doc.Source != path {
		t.Errorf("source = %q, want %q", doc.Source, path)
	}
	if doc.FileType != "txt" {
		t.Errorf("file type = %q, want txt", doc.FileType)
	}
	if doc.Metadata["source"] != path {
		t.Errorf("metadata source = %v, want %q", doc.Metadata["source"], path)
	}
	if doc.CreatedAt == "" {
		t.Error("document should record a creation timestamp")
	}
}
