package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/okian/liga/pkg/logger"
)

// workerChannelMultiplier sizes the submission channel relative to the
// worker count so producers stay ahead of the pool.
const workerChannelMultiplier = 2

// httpClient wraps http.Client with a shared timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(config *Config) *httpClient {
	return &httpClient{
		client: &http.Client{Timeout: config.Timeout},
	}
}

// get performs a GET request.
func (c *httpClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// put performs a PUT request with a JSON body.
func (c *httpClient) put(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// fetchRosters loads the active week's team assignments.
func fetchRosters(ctx context.Context, config *Config) ([]Roster, error) {
	client := newHTTPClient(config)

	resp, err := client.get(ctx, config.BaseURL+"/teams")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read teams response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("teams request failed with status: %d", resp.StatusCode)
	}

	var rosters []Roster
	if err := json.Unmarshal(body, &rosters); err != nil {
		return nil, fmt.Errorf("failed to decode teams response: %w", err)
	}
	if len(rosters) == 0 {
		return nil, fmt.Errorf("service returned no teams")
	}
	return rosters, nil
}

// submitCaptures sends the submissions through a worker pool and tallies
// the saved, duplicate and failed counts.
func submitCaptures(ctx context.Context, config *Config, subs []Submission, stats *Stats) error {
	logger.Get().Info(ctx, "submitting captures",
		logger.Int("submissions", len(subs)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config)
	url := config.BaseURL + "/capture"

	var (
		saved     int64
		duplicate int64
		failed    int64
		sent      int64
	)

	subChan := make(chan Submission, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for sub := range subChan {
				select {
				case <-ctx.Done():
					return
				default:
					atomic.AddInt64(&sent, 1)
					result := submitSingleCapture(ctx, client, url, sub)
					switch result {
					case "saved":
						atomic.AddInt64(&saved, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					default:
						atomic.AddInt64(&failed, 1)
					}
					if config.Verbose {
						logger.Get().Debug(ctx, "capture submitted",
							logger.String("submissionId", sub.SubmissionID),
							logger.String("team", sub.Team),
							logger.String("result", result))
					}
				}
			}
		}()
	}

	go func() {
		defer close(subChan)
		for _, sub := range subs {
			select {
			case <-ctx.Done():
				return
			case subChan <- sub:
			}
		}
	}()

	wg.Wait()

	stats.SubmissionsSent = int(atomic.LoadInt64(&sent))
	stats.SubmissionsSaved = int(atomic.LoadInt64(&saved))
	stats.SubmissionsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.SubmissionsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "capture submission completed",
		logger.Int("saved", stats.SubmissionsSaved),
		logger.Int("duplicate", stats.SubmissionsDuplicate),
		logger.Int("failed", stats.SubmissionsFailed))

	if stats.SubmissionsFailed > 0 {
		return fmt.Errorf("%d of %d submissions failed", stats.SubmissionsFailed, stats.SubmissionsSent)
	}
	return nil
}

// submitSingleCapture sends one submission and classifies the outcome.
func submitSingleCapture(ctx context.Context, client *httpClient, url string, sub Submission) string {
	resp, err := client.put(ctx, url, sub)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	if resp.StatusCode != http.StatusOK {
		return "failed"
	}

	var receipt Receipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		return "failed"
	}
	if receipt.Status == "duplicate" {
		return "duplicate"
	}
	return "saved"
}

// fetchScoreboard loads the current week's scoreboard.
func fetchScoreboard(ctx context.Context, config *Config) (*Scoreboard, error) {
	client := newHTTPClient(config)

	resp, err := client.get(ctx, config.BaseURL+"/scoreboard")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read scoreboard response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoreboard request failed with status: %d", resp.StatusCode)
	}

	var board Scoreboard
	if err := json.Unmarshal(body, &board); err != nil {
		return nil, fmt.Errorf("failed to decode scoreboard response: %w", err)
	}
	return &board, nil
}
