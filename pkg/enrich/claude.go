package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nikogura/adgm-review/pkg/detector"
	"github.com/nikogura/adgm-review/pkg/rules"
	"github.com/pkg/errors"
)

const (
	// ClaudeAPIEndpoint is the Anthropic API endpoint.
	ClaudeAPIEndpoint = "https://api.anthropic.com/v1/messages"
	// ClaudeModel is the default model.
	ClaudeModel = "claude-sonnet-4-20250514"
	// ClaudeAPIVersion is the API version.
	ClaudeAPIVersion = "2023-06-01"
	// maxDocumentChars bounds how much document text goes into a prompt.
	maxDocumentChars = 8000
)

// ClaudeEnricher fetches compliance guidance from the Claude API.
type ClaudeEnricher struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewClaudeEnricher creates an enricher backed by the Claude API.
func NewClaudeEnricher(apiKey, model string) (enricher *ClaudeEnricher, err error) {
	if apiKey == "" {
		err = errors.New("API key is required for the Claude enricher")
		return enricher, err
	}

	if model == "" {
		model = ClaudeModel
	}

	enricher = &ClaudeEnricher{
		apiKey:   apiKey,
		model:    model,
		endpoint: ClaudeAPIEndpoint,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}

	return enricher, err
}

// claudeRequest is the Claude messages API request body.
type claudeRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the Claude messages API response body.
type claudeResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Guidance asks Claude for short remediation guidance for one flag kind.
func (c *ClaudeEnricher) Guidance(ctx context.Context, docType rules.DocType, kind rules.FlagKind) (guidance string, err error) {
	prompt := buildGuidancePrompt(docType, kind)

	guidance, err = c.sendRequest(ctx, prompt)
	if err != nil {
		err = errors.Wrap(err, "guidance request failed")
		return guidance, err
	}

	guidance = strings.TrimSpace(guidance)

	return guidance, err
}

// EnrichedAnalysis asks Claude for an advisory summary of one document's
// findings.
func (c *ClaudeEnricher) EnrichedAnalysis(ctx context.Context, docText string, docType rules.DocType, issues []detector.Issue) (summary string, err error) {
	prompt := buildAnalysisPrompt(docText, docType, issues)

	summary, err = c.sendRequest(ctx, prompt)
	if err != nil {
		err = errors.Wrap(err, "enriched analysis request failed")
		return summary, err
	}

	summary = strings.TrimSpace(summary)

	return summary, err
}

func buildGuidancePrompt(docType rules.DocType, kind rules.FlagKind) (prompt string) {
	prompt = fmt.Sprintf(`You are an ADGM (Abu Dhabi Global Market) compliance specialist.

A %q document was flagged for the compliance issue category %q.

In 2-3 sentences, explain how to remediate this issue under ADGM regulations.
Respond with plain text only, no markdown.`, docType, kind)

	return prompt
}

func buildAnalysisPrompt(docText string, docType rules.DocType, issues []detector.Issue) (prompt string) {
	if len(docText) > maxDocumentChars {
		docText = docText[:maxDocumentChars]
	}

	var issueList strings.Builder
	for _, issue := range issues {
		fmt.Fprintf(&issueList, "- [%s] %s: %s\n", issue.Severity, issue.FlagKind, issue.Description)
	}

	prompt = fmt.Sprintf(`You are an ADGM (Abu Dhabi Global Market) compliance specialist.

Document type: %s

Detected issues:
%s
Document text:
%s

Summarize the compliance posture of this document in one short paragraph and
name the most urgent remediation. Respond with plain text only, no markdown.`,
		docType, issueList.String(), docText)

	return prompt
}

// sendRequest sends a single-message request to the Claude API and returns
// the text of the first content block.
func (c *ClaudeEnricher) sendRequest(ctx context.Context, prompt string) (responseText string, err error) {
	claudeReq := claudeRequest{
		Model:     c.model,
		MaxTokens: 1024,
		Messages: []message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	var reqBody []byte
	reqBody, err = json.Marshal(claudeReq)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal request")
		return responseText, err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return responseText, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", ClaudeAPIVersion)

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return responseText, err
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return responseText, err
	}

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
		return responseText, err
	}

	var claudeResp claudeResponse
	err = json.Unmarshal(respBody, &claudeResp)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse Claude response: %s", string(respBody))
		return responseText, err
	}

	if len(claudeResp.Content) == 0 {
		err = errors.New("no content in Claude response")
		return responseText, err
	}

	responseText = claudeResp.Content[0].Text

	return responseText, err
}
