// convert-pdf converts PDF statements into structured JSON documents, either
// one file at a time or a whole directory in a single batch.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"maccounting/internal/config"
	"maccounting/internal/convert"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	var (
		inDir  = flag.String("in", "", "input directory of PDFs (batch mode)")
		outDir = flag.String("out", "", "output directory for JSON documents (batch mode)")
		file   = flag.String("file", "", "single PDF file to convert")
		output = flag.String("o", "", "output path for single-file mode (default: <file>.json next to input)")
		model  = flag.String("model", config.Load().GeminiModel, "Gemini model used for extraction")
	)
	flag.Parse()

	ctx := context.Background()
	conv, err := convert.NewGeminiConverter(ctx, *model)
	if err != nil {
		return fmt.Errorf("initialize converter: %w", err)
	}

	switch {
	case *file != "":
		outPath := *output
		if outPath == "" {
			outPath = strings.TrimSuffix(*file, filepath.Ext(*file)) + ".json"
		}
		if err := convert.ConvertFile(ctx, conv, *file, outPath); err != nil {
			return err
		}
		log.Printf("converted %s -> %s", *file, outPath)
		return nil
	case *inDir != "" && *outDir != "":
		converted, err := convert.ConvertDirectory(ctx, conv, *inDir, *outDir)
		for _, p := range converted {
			log.Printf("converted -> %s", p)
		}
		if err != nil {
			return err
		}
		log.Printf("done: %d document(s)", len(converted))
		return nil
	default:
		return fmt.Errorf("usage: convert-pdf -file statement.pdf [-o out.json] | convert-pdf -in ./pdfs -out ./docs")
	}
}
