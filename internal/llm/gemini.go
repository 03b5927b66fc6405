// Package llm – Gemini implementation
//
// Gemini adapts Google's generative-ai-go client to the Generator
// contract. Chat replies run through a stateful chat session rebuilt
// from the stored turn history on every call, so no live SDK object
// ever needs to survive between requests or across store backends.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/stressease/go-backend/internal/safety"
	"github.com/stressease/go-backend/internal/session"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-1.5-flash"

// Gemini is the production Generator backed by the Google AI API.
type Gemini struct {
	client    *genai.Client
	modelName string
}

// NewGemini dials the Google AI API. An empty modelName selects
// DefaultModel.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Gemini{client: cl, modelName: modelName}, nil
}

// Close releases the underlying API client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Reply rebuilds the chat session from history and sends the new
// message. The persona prompt and its acknowledgement are always the
// first two turns, so the model answers in character from the very
// first user message.
func (g *Gemini) Reply(ctx context.Context, history []session.Turn, message string) (string, error) {
	m := g.client.GenerativeModel(g.modelName)
	cs := m.StartChat()
	cs.History = chatHistory(history)

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini reply: %w", err)
	}
	return collectText(resp), nil
}

// Summarize produces a detailed paragraph summary of the conversation.
func (g *Gemini) Summarize(ctx context.Context, history []session.Turn) (string, error) {
	m := g.client.GenerativeModel(g.modelName)
	m.SetMaxOutputTokens(300)
	m.SetTemperature(0.5)
	m.SetTopP(0.9)
	m.SetTopK(40)

	prompt := summaryPromptHeader + transcript(history) + "\nSummary:"
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini summarize: %w", err)
	}
	return strings.TrimSpace(collectText(resp)), nil
}

// Title produces a short label for the conversation. Output is clamped
// to 50 characters and stripped of quotes the model sometimes adds.
func (g *Gemini) Title(ctx context.Context, history []session.Turn) (string, error) {
	m := g.client.GenerativeModel(g.modelName)
	m.SetMaxOutputTokens(20)
	m.SetTemperature(0.3)
	m.SetTopP(0.8)
	m.SetTopK(20)

	prompt := titlePromptHeader + transcript(history) + "\nTitle:"
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini title: %w", err)
	}

	title := strings.Trim(clampTitle(strings.TrimSpace(collectText(resp)), 50), `"'`)
	if title == "" {
		title = "Chat Session"
	}
	return title, nil
}

// clampTitle shortens s to at most max characters, replacing the tail with an
// ASCII ellipsis. Counting is in runes so a multi-byte character is never cut
// in half.
func clampTitle(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// RegionalResources asks the model for crisis contacts in a country and
// decodes the JSON array it returns. Entries with no name are dropped;
// unknown contact types fall back to crisis_hotline.
func (g *Gemini) RegionalResources(ctx context.Context, country string) ([]safety.Contact, error) {
	m := g.client.GenerativeModel(g.modelName)
	m.SetTemperature(0.2)

	resp, err := m.GenerateContent(ctx, genai.Text(regionalPromptHeader+country))
	if err != nil {
		return nil, fmt.Errorf("gemini regional resources: %w", err)
	}
	return parseRegional(collectText(resp), country)
}

// chatHistory converts stored turns into SDK content, prefixed with the
// persona handshake.
func chatHistory(history []session.Turn) []*genai.Content {
	out := make([]*genai.Content, 0, len(history)+2)
	out = append(out,
		&genai.Content{Role: "user", Parts: []genai.Part{genai.Text(masterPrompt)}},
		&genai.Content{Role: "model", Parts: []genai.Part{genai.Text(masterAck)}},
	)
	for _, t := range history {
		role := "user"
		if t.Role == "assistant" {
			role = "model"
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(t.Content)}})
	}
	return out
}

// transcript flattens turns into "Role: content" lines for the one-shot
// prompts.
func transcript(history []session.Turn) string {
	var b strings.Builder
	for _, t := range history {
		role := "User"
		if t.Role == "assistant" {
			role = "Assistant"
		}
		b.WriteString(role)
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteByte('\n')
	}
	return b.String()
}

// collectText concatenates the text parts of the first candidate.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

type regionalEntry struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Number       string `json:"number"`
	Website      string `json:"website"`
	Description  string `json:"description"`
	Availability string `json:"availability"`
}

// parseRegional extracts the JSON array from the model output. The model
// occasionally wraps the array in prose or a code fence, so decoding is
// anchored on the outermost brackets.
func parseRegional(raw, country string) ([]safety.Contact, error) {
	start := strings.IndexByte(raw, '[')
	end := strings.LastIndexByte(raw, ']')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("regional resources: no JSON array in model output")
	}

	var entries []regionalEntry
	if err := json.Unmarshal([]byte(raw[start:end+1]), &entries); err != nil {
		return nil, fmt.Errorf("regional resources: decode: %w", err)
	}

	out := make([]safety.Contact, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		ct := safety.ContactType(e.Type)
		switch ct {
		case safety.ContactEmergency, safety.ContactHotline, safety.ContactOnline:
		default:
			ct = safety.ContactHotline
		}
		avail := strings.TrimSpace(e.Availability)
		if avail == "" {
			avail = "24/7"
		}
		out = append(out, safety.Contact{
			ID:           slug(name),
			Type:         ct,
			Name:         name,
			Number:       strings.TrimSpace(e.Number),
			Website:      strings.TrimSpace(e.Website),
			Description:  strings.TrimSpace(e.Description),
			Availability: avail,
			Country:      country,
			Priority:     len(out) + 1,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("regional resources: empty result for %q", country)
	}
	return out, nil
}

// slug derives a stable contact ID from a resource name.
func slug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

var _ Generator = (*Gemini)(nil)
