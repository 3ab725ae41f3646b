package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// documentPrompt asks the model for a full structural extraction rather than
// domain interpretation of the statement contents.
const documentPrompt = "You are a document structure extractor for PDF files.\n\n" +
	"Task:\n" +
	"- Extract the full structure of the attached PDF.\n" +
	"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
	"- Output a single JSON object.\n\n" +
	"The object must have these fields:\n" +
	"- \"name\": string, the document name\n" +
	"- \"pages\": array of page objects, each with a \"number\" field\n" +
	"- \"texts\": array of objects with \"page\" (number) and \"text\" (string), in reading order\n" +
	"- \"tables\": array of objects with \"page\" (number) and \"rows\" (array of arrays of strings)\n\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Do NOT use ```json or any Markdown.\n" +
	"Output must begin with \"{\" and end with \"}\".\n"

// GeminiConverter extracts structured documents from PDFs via the Gemini API.
// Credentials come from the environment (GEMINI_API_KEY, or the Vertex AI
// variables when GOOGLE_GENAI_USE_VERTEXAI is set).
type GeminiConverter struct {
	client *genai.Client
	model  string
}

func NewGeminiConverter(ctx context.Context, model string) (*GeminiConverter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiConverter{client: client, model: model}, nil
}

// Convert sends the PDF inline to the model and parses the structured
// document it returns.
func (g *GeminiConverter) Convert(ctx context.Context, pdfBytes []byte, filename string) (map[string]any, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: documentPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: "application/pdf",
						Data:     pdfBytes,
					},
				},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("empty response from model for %q", filename)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(cleanModelJSON(rawText)), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal model output for %q: %w", filename, err)
	}
	if _, ok := doc["name"]; !ok {
		doc["name"] = filename
	}
	return doc, nil
}

// cleanModelJSON strips Markdown code fences the model sometimes emits
// despite the prompt instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
