package convert

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeConverter struct {
	failOn string
	calls  []string
}

func (f *fakeConverter) Convert(_ context.Context, pdfBytes []byte, filename string) (map[string]any, error) {
	f.calls = append(f.calls, filename)
	if filename == f.failOn {
		return nil, errors.New("extraction failed")
	}
	return map[string]any{
		"name":  filename,
		"bytes": float64(len(pdfBytes)),
	}, nil
}

func writePDF(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4 fake"), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestConvertFileWritesIndentedJSON(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "nested", "statement.json")
	writePDF(t, in, "statement.pdf")

	conv := &fakeConverter{}
	if err := ConvertFile(context.Background(), conv, filepath.Join(in, "statement.pdf"), out); err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output not valid JSON: %v", err)
	}
	if doc["name"] != "statement.pdf" {
		t.Fatalf("doc name = %v", doc["name"])
	}
	// Human-readable formatting: 2-space indent.
	if string(data[:2]) != "{\n" {
		t.Fatalf("output not indented: %q", data[:20])
	}
}

func TestConvertFileMissingInput(t *testing.T) {
	err := ConvertFile(context.Background(), &fakeConverter{}, "/does/not/exist.pdf", filepath.Join(t.TempDir(), "x.json"))
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestConvertDirectory(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writePDF(t, in, "b.pdf")
	writePDF(t, in, "a.pdf")
	writePDF(t, in, "notes.txt")
	if err := os.Mkdir(filepath.Join(in, "sub.pdf"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writePDF(t, filepath.Join(in, "sub.pdf"), "nested.pdf")

	conv := &fakeConverter{}
	converted, err := ConvertDirectory(context.Background(), conv, in, out)
	if err != nil {
		t.Fatalf("ConvertDirectory: %v", err)
	}
	// Only top-level PDFs, in name order; directories and non-PDFs skipped.
	want := []string{filepath.Join(out, "a.json"), filepath.Join(out, "b.json")}
	if len(converted) != len(want) {
		t.Fatalf("converted = %v, want %v", converted, want)
	}
	for i := range want {
		if converted[i] != want[i] {
			t.Fatalf("converted = %v, want %v", converted, want)
		}
	}
	for _, p := range want {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing output %s: %v", p, err)
		}
	}
}

func TestConvertDirectoryAbortsOnFirstFailure(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writePDF(t, in, "a.pdf")
	writePDF(t, in, "b.pdf")
	writePDF(t, in, "c.pdf")

	conv := &fakeConverter{failOn: "b.pdf"}
	converted, err := ConvertDirectory(context.Background(), conv, in, out)
	if err == nil {
		t.Fatal("expected batch to fail")
	}
	// a converted before the failure; c never attempted.
	if len(converted) != 1 || filepath.Base(converted[0]) != "a.json" {
		t.Fatalf("converted = %v, want only a.json", converted)
	}
	for _, called := range conv.calls {
		if called == "c.pdf" {
			t.Fatal("batch continued past first failure")
		}
	}
}

func TestConvertDirectoryEmpty(t *testing.T) {
	converted, err := ConvertDirectory(context.Background(), &fakeConverter{}, t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("ConvertDirectory: %v", err)
	}
	if len(converted) != 0 {
		t.Fatalf("converted = %v, want none", converted)
	}
}

func TestConvertDirectoryMissingInputDir(t *testing.T) {
	_, err := ConvertDirectory(context.Background(), &fakeConverter{}, "/does/not/exist", t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing input directory")
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "whitespace", in: "  {\"a\":1}\n", want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.in); got != tt.want {
				t.Fatalf("cleanModelJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
