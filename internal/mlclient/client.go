// Package mlclient is a bespoke REST client for the external ML
// service: embeddings, transcription, vision analysis, and LLM
// narrative/plan/response reasoning. There is no SDK to wrap, since
// the service's payload shapes are proprietary rather than a published
// API, so the client is a thin net/http wrapper, one method per
// endpoint, with typed request/response structs.
package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vibecut/daemon/internal/platform/apierr"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type TextEmbeddingRequest struct {
	Text string `json:"text"`
}

type TextEmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	var resp TextEmbeddingResponse
	if err := c.post(ctx, "/embeddings/text", TextEmbeddingRequest{Text: text}, &resp); err != nil {
		return nil, err
	}
	return resp.Embedding, nil
}

type VisionEmbeddingRequest struct {
	MediaPath string  `json:"media_path"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

type VisionEmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (c *Client) EmbedVision(ctx context.Context, mediaPath string, startSec, endSec float64) ([]float32, error) {
	var resp VisionEmbeddingResponse
	req := VisionEmbeddingRequest{MediaPath: mediaPath, StartTime: startSec, EndTime: endSec}
	if err := c.post(ctx, "/embeddings/vision", req, &resp); err != nil {
		return nil, err
	}
	return resp.Embedding, nil
}

type TranscribeRequest struct {
	MediaPath string `json:"mediaPath"`
}

type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type TranscribeResponse struct {
	Segments []TranscriptSegment `json:"segments"`
}

func (c *Client) Transcribe(ctx context.Context, mediaPath string) (*TranscribeResponse, error) {
	var resp TranscribeResponse
	if err := c.post(ctx, "/transcribe", TranscribeRequest{MediaPath: mediaPath}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type VisionAnalyzeRequest struct {
	MediaPath string `json:"mediaPath"`
}

type VisionFrameSegment struct {
	Start       float64  `json:"start"`
	End         float64  `json:"end"`
	BlurScore   float64  `json:"blur_score"`
	MotionScore float64  `json:"motion_score"`
	Tags        []string `json:"tags"`
	HasFace     bool     `json:"has_face"`
	FaceBBox    []float64 `json:"face_bbox,omitempty"`
}

type VisionAnalyzeResponse struct {
	Segments []VisionFrameSegment `json:"segments"`
}

func (c *Client) AnalyzeVision(ctx context.Context, mediaPath string) (*VisionAnalyzeResponse, error) {
	var resp VisionAnalyzeResponse
	if err := c.post(ctx, "/vision/analyze", VisionAnalyzeRequest{MediaPath: mediaPath}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type ReasonRequest struct {
	Segments        []map[string]any `json:"segments"`
	StyleProfile    any              `json:"style_profile,omitempty"`
	TimelineContext any              `json:"timeline_context,omitempty"`
}

type ReasonResponse struct {
	NarrativeStructure any               `json:"narrative_structure"`
	Segments           []map[string]any  `json:"segments"`
}

func (c *Client) Reason(ctx context.Context, req ReasonRequest) (*ReasonResponse, error) {
	var resp ReasonResponse
	if err := c.post(ctx, "/orchestrator/reason", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type GeneratePlanRequest struct {
	Beats              []string `json:"beats"`
	Constraints        any      `json:"constraints,omitempty"`
	NarrativeStructure any      `json:"narrative_structure"`
	StyleProfileID     *string  `json:"style_profile_id,omitempty"`
}

type GeneratePlanResponse struct {
	PrimarySegments []map[string]any `json:"primary_segments"`
	Raw             json.RawMessage  `json:"-"`
}

func (c *Client) GeneratePlan(ctx context.Context, req GeneratePlanRequest) (*GeneratePlanResponse, error) {
	var resp GeneratePlanResponse
	if err := c.post(ctx, "/orchestrator/generate_plan", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type GenerateResponseRequest struct {
	ConversationHistory []map[string]any `json:"conversation_history"`
	ProjectState        any              `json:"project_state"`
	Context             any              `json:"context,omitempty"`
	EventType           string           `json:"event_type"`
}

type Suggestion struct {
	Label        string  `json:"label"`
	Action       string  `json:"action"`
	ConfirmToken *string `json:"confirm_token,omitempty"`
}

type GenerateResponseResponse struct {
	Message     string       `json:"message"`
	Suggestions []Suggestion `json:"suggestions"`
	Questions   []string     `json:"questions"`
}

func (c *Client) GenerateResponse(ctx context.Context, req GenerateResponseRequest) (*GenerateResponseResponse, error) {
	var resp GenerateResponseResponse
	if err := c.post(ctx, "/orchestrator/generate_response", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apierr.New(http.StatusBadGateway, "ExternalUnavailable", fmt.Errorf("ml service %s: %w", path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return apierr.New(http.StatusBadGateway, "ExternalUnavailable", fmt.Errorf("ml service %s returned %d", path, resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return apierr.New(resp.StatusCode, "Invalid", fmt.Errorf("ml service %s returned %d", path, resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
