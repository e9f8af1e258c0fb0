package owid

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/covid-metrics-etl/internal/domain"
)

// Client downloads the OWID CSV export and decodes it into a frame.
// It implements pipeline.Fetcher.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a fetcher for the given dataset URL.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch downloads and decodes the dataset. Column names come through raw;
// normalization happens in the engine.
func (c *Client) Fetch(ctx context.Context) (domain.Frame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("download dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Frame{}, fmt.Errorf("download dataset: unexpected status %d", resp.StatusCode)
	}

	frame, err := ReadCSV(resp.Body)
	if err != nil {
		return domain.Frame{}, err
	}
	c.logger.Debug("dataset downloaded", "url", c.url, "rows", len(frame.Rows), "duration", time.Since(start))
	return frame, nil
}

// ReadCSV decodes CSV into a frame: first row is the header, every other row
// is cells. Ragged rows are tolerated; short rows read as empty cells
// downstream.
func ReadCSV(r io.Reader) (domain.Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return domain.Frame{}, fmt.Errorf("read csv header: %w", err)
	}

	frame := domain.Frame{Columns: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.Frame{}, fmt.Errorf("read csv row: %w", err)
		}
		frame.Rows = append(frame.Rows, row)
	}
	return frame, nil
}
