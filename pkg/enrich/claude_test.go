package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nikogura/adgm-review/pkg/detector"
	"github.com/nikogura/adgm-review/pkg/rules"
)

func claudeTestServer(t *testing.T, responseText string) (server *httptest.Server) {
	t.Helper()

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") == "" {
			t.Error("Expected X-Api-Key header")
		}
		if r.Header.Get("Anthropic-Version") != ClaudeAPIVersion {
			t.Errorf("Expected Anthropic-Version %s, got %s", ClaudeAPIVersion, r.Header.Get("Anthropic-Version"))
		}

		var req claudeRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if len(req.Messages) != 1 {
			t.Errorf("Expected 1 message, got %d", len(req.Messages))
		}

		resp := claudeResponse{
			Content: []contentBlock{{Type: "text", Text: responseText}},
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(resp)
		if err != nil {
			t.Errorf("Failed to encode response: %v", err)
		}
	}))

	return server
}

func TestNewClaudeEnricherRequiresAPIKey(t *testing.T) {
	_, err := NewClaudeEnricher("", "")
	if err == nil {
		t.Error("Expected error for empty API key, got nil")
	}
}

func TestNewClaudeEnricherDefaultModel(t *testing.T) {
	enricher, err := NewClaudeEnricher("test-key", "")
	if err != nil {
		t.Fatalf("NewClaudeEnricher failed: %v", err)
	}

	if enricher.model != ClaudeModel {
		t.Errorf("Expected default model %s, got %s", ClaudeModel, enricher.model)
	}
}

func TestGuidance(t *testing.T) {
	server := claudeTestServer(t, "  Replace the jurisdiction clause with ADGM Courts.  ")
	defer server.Close()

	enricher, err := NewClaudeEnricher("test-key", "")
	if err != nil {
		t.Fatalf("NewClaudeEnricher failed: %v", err)
	}
	enricher.endpoint = server.URL

	guidance, err := enricher.Guidance(context.Background(), rules.DocTypeArticles, rules.FlagJurisdiction)
	if err != nil {
		t.Fatalf("Guidance failed: %v", err)
	}

	want := "Replace the jurisdiction clause with ADGM Courts."
	if guidance != want {
		t.Errorf("Expected trimmed guidance %q, got %q", want, guidance)
	}
}

func TestEnrichedAnalysis(t *testing.T) {
	server := claudeTestServer(t, "The document has one critical jurisdiction defect.")
	defer server.Close()

	enricher, err := NewClaudeEnricher("test-key", "")
	if err != nil {
		t.Fatalf("NewClaudeEnricher failed: %v", err)
	}
	enricher.endpoint = server.URL

	issues := []detector.Issue{
		{
			FlagKind:    rules.FlagJurisdiction,
			Description: "Jurisdiction must be ADGM Courts",
			Severity:    rules.SeverityHigh,
		},
	}

	summary, err := enricher.EnrichedAnalysis(context.Background(), "document text", rules.DocTypeArticles, issues)
	if err != nil {
		t.Fatalf("EnrichedAnalysis failed: %v", err)
	}

	if summary != "The document has one critical jurisdiction defect." {
		t.Errorf("Unexpected summary: %q", summary)
	}
}

func TestGuidanceServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "overloaded"}`))
	}))
	defer server.Close()

	enricher, err := NewClaudeEnricher("test-key", "")
	if err != nil {
		t.Fatalf("NewClaudeEnricher failed: %v", err)
	}
	enricher.endpoint = server.URL

	_, err = enricher.Guidance(context.Background(), rules.DocTypeArticles, rules.FlagJurisdiction)
	if err == nil {
		t.Error("Expected error for server failure, got nil")
	}
}

func TestGuidanceEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content": []}`))
	}))
	defer server.Close()

	enricher, err := NewClaudeEnricher("test-key", "")
	if err != nil {
		t.Fatalf("NewClaudeEnricher failed: %v", err)
	}
	enricher.endpoint = server.URL

	_, err = enricher.Guidance(context.Background(), rules.DocTypeArticles, rules.FlagJurisdiction)
	if err == nil {
		t.Error("Expected error for empty content, got nil")
	}
}

func TestGuidanceContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	enricher, err := NewClaudeEnricher("test-key", "")
	if err != nil {
		t.Fatalf("NewClaudeEnricher failed: %v", err)
	}
	enricher.endpoint = server.URL

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = enricher.Guidance(ctx, rules.DocTypeArticles, rules.FlagJurisdiction)
	if err == nil {
		t.Error("Expected error for timed-out request, got nil")
	}
}

func TestNoopEnricher(t *testing.T) {
	noop := NewNoop()

	guidance, err := noop.Guidance(context.Background(), rules.DocTypeArticles, rules.FlagJurisdiction)
	if err != nil {
		t.Errorf("Noop Guidance returned error: %v", err)
	}
	if guidance != "" {
		t.Errorf("Expected empty guidance, got %q", guidance)
	}

	summary, err := noop.EnrichedAnalysis(context.Background(), "text", rules.DocTypeArticles, nil)
	if err != nil {
		t.Errorf("Noop EnrichedAnalysis returned error: %v", err)
	}
	if summary != "" {
		t.Errorf("Expected empty summary, got %q", summary)
	}
}

func TestBuildAnalysisPromptTruncates(t *testing.T) {
	longText := make([]byte, maxDocumentChars*2)
	for i := range longText {
		longText[i] = 'a'
	}

	prompt := buildAnalysisPrompt(string(longText), rules.DocTypeArticles, nil)
	if len(prompt) > maxDocumentChars+1024 {
		t.Errorf("Prompt not truncated: %d chars", len(prompt))
	}
}
