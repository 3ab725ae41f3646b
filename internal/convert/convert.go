// Package convert turns PDF statements into structured JSON documents.
//
// Structural extraction (layout, tables, text) is delegated entirely to an
// external document-understanding model; the code here only reads the input,
// invokes the converter and writes the result with stable formatting.
package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DocumentConverter extracts a structured document from raw PDF bytes.
type DocumentConverter interface {
	Convert(ctx context.Context, pdfBytes []byte, filename string) (map[string]any, error)
}

// ConvertFile converts one PDF into one JSON document. The output directory
// is created if missing and the document is serialized with a 2-space indent.
func ConvertFile(ctx context.Context, conv DocumentConverter, inputPath, outputPath string) error {
	pdfBytes, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read pdf %q: %w", inputPath, err)
	}
	doc, err := conv.Convert(ctx, pdfBytes, filepath.Base(inputPath))
	if err != nil {
		return fmt.Errorf("convert %q: %w", inputPath, err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize document for %q: %w", inputPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write document %q: %w", outputPath, err)
	}
	return nil
}

// ConvertDirectory converts every .pdf directly inside inDir (non-recursive)
// into outDir, one JSON document per PDF, and returns the written paths.
// Files are processed in name order and the first failure aborts the rest of
// the batch.
func ConvertDirectory(ctx context.Context, conv DocumentConverter, inDir, outDir string) ([]string, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, fmt.Errorf("read input directory %q: %w", inDir, err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w", outDir, err)
	}

	var pdfs []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".pdf" {
			continue
		}
		pdfs = append(pdfs, e.Name())
	}
	sort.Strings(pdfs)

	var converted []string
	for _, name := range pdfs {
		outName := strings.TrimSuffix(name, ".pdf") + ".json"
		outPath := filepath.Join(outDir, outName)
		if err := ConvertFile(ctx, conv, filepath.Join(inDir, name), outPath); err != nil {
			return converted, err
		}
		converted = append(converted, outPath)
	}
	return converted, nil
}
