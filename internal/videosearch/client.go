// Package videosearch is the client for the external video-search
// service: maintaining a remote index keyed by asset, uploading clips
// into it, and querying it by free text. Uploads are processed
// asynchronously by the remote service, so creation returns a task id
// that must be polled to completion.
package videosearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vibecut/daemon/internal/platform/apierr"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type CreateIndexRequest struct {
	AssetID string `json:"asset_id"`
}

type CreateIndexResponse struct {
	IndexID string `json:"index_id"`
}

func (c *Client) CreateIndex(ctx context.Context, assetID string) (string, error) {
	var resp CreateIndexResponse
	if err := c.do(ctx, http.MethodPost, "/indexes", CreateIndexRequest{AssetID: assetID}, &resp); err != nil {
		return "", err
	}
	return resp.IndexID, nil
}

type CreateUploadTaskRequest struct {
	IndexID   string `json:"index_id"`
	MediaPath string `json:"media_path"`
}

type CreateUploadTaskResponse struct {
	TaskID string `json:"task_id"`
}

func (c *Client) CreateUploadTask(ctx context.Context, indexID, mediaPath string) (string, error) {
	var resp CreateUploadTaskResponse
	req := CreateUploadTaskRequest{IndexID: indexID, MediaPath: mediaPath}
	if err := c.do(ctx, http.MethodPost, "/upload_tasks", req, &resp); err != nil {
		return "", err
	}
	return resp.TaskID, nil
}

type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskReady   TaskStatus = "ready"
	TaskFailed  TaskStatus = "failed"
)

type taskStatusResponse struct {
	Status  TaskStatus `json:"status"`
	VideoID string     `json:"video_id,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// MaxPollAttempts bounds AwaitUploadTask independently of MaxElapsedTime,
// so a remote service that answers quickly but never reaches a
// terminal state still can't poll forever.
const MaxPollAttempts = 12

// AwaitUploadTask polls a task to a terminal state with a capped
// exponential backoff, starting at 5 seconds and capping at 60,
// bounded by both maxElapsed and MaxPollAttempts so a stuck remote
// task can't hang a job forever. Returns the remote video id on
// success.
func (c *Client) AwaitUploadTask(ctx context.Context, taskID string, maxElapsed time.Duration) (string, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 5 * time.Second
	bo.MaxInterval = 60 * time.Second
	bo.MaxElapsedTime = maxElapsed
	bo.Multiplier = 2.0

	var videoID string
	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		if attempts > MaxPollAttempts {
			return backoff.Permanent(apierr.New(http.StatusBadGateway, "ExternalUnavailable", fmt.Errorf("upload task %s exceeded %d poll attempts", taskID, MaxPollAttempts)))
		}
		var resp taskStatusResponse
		if err := c.do(ctx, http.MethodGet, "/upload_tasks/"+taskID, nil, &resp); err != nil {
			return err
		}
		switch resp.Status {
		case TaskReady:
			videoID = resp.VideoID
			return nil
		case TaskFailed:
			return backoff.Permanent(apierr.New(http.StatusBadGateway, "ExternalUnavailable", fmt.Errorf("upload task %s failed: %s", taskID, resp.Error)))
		default:
			return fmt.Errorf("upload task %s still %s", taskID, resp.Status)
		}
	}, backoff.WithContext(bo, ctx))
	return videoID, err
}

type SearchRequest struct {
	Query   string `json:"query"`
	IndexID string `json:"index_id,omitempty"`
	TopK    int    `json:"top_k,omitempty"`
}

type SearchHit struct {
	AssetID    string  `json:"asset_id"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Score      float64 `json:"score"`
	ExternalID string  `json:"external_id"`
}

type SearchResponse struct {
	Hits []SearchHit `json:"hits"`
}

func (c *Client) Search(ctx context.Context, req SearchRequest) ([]SearchHit, error) {
	var resp SearchResponse
	if err := c.do(ctx, http.MethodPost, "/search", req, &resp); err != nil {
		return nil, err
	}
	return resp.Hits, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apierr.New(http.StatusBadGateway, "ExternalUnavailable", fmt.Errorf("video search %s: %w", path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return apierr.New(http.StatusBadGateway, "ExternalUnavailable", fmt.Errorf("video search %s returned %d", path, resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return apierr.New(resp.StatusCode, "Invalid", fmt.Errorf("video search %s returned %d", path, resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
