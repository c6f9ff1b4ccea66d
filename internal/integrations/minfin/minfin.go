package minfin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dan9191/debt-indexation/internal/config"
	"github.com/Dan9191/debt-indexation/internal/inflation"
	"github.com/Dan9191/debt-indexation/internal/models"
	"github.com/sirupsen/logrus"
)

const maxBodySize = 10 << 20

var errBodyTooLarge = errors.New("response body too large")

// MinfinClient loads the monthly consumer price index table published by
// index.minfin.com.ua, or an XML export of the same table.
type MinfinClient struct {
	url        string
	format     string
	userAgent  string
	retries    int
	retryDelay time.Duration
	maxBody    int64
	client     *http.Client
	log        *logrus.Logger
}

// NewMinfinClient initializes a new client
func NewMinfinClient(cfg *config.Config, log *logrus.Logger) *MinfinClient {
	return &MinfinClient{
		url:        cfg.InflationURL,
		format:     cfg.InflationFormat,
		userAgent:  cfg.UserAgent,
		retries:    cfg.FetchRetries,
		retryDelay: cfg.FetchRetryDelay,
		maxBody:    maxBodySize,
		client: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		log: log,
	}
}

// statusError is a non-200 answer from the index site
type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// sendRequest downloads the index page
func (c *MinfinClient) sendRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debugf("Inflation source responded %d in %v", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: exceeds %d bytes", errBodyTooLarge, c.maxBody)
	}
	return body, nil
}

// download retries transport failures and 5xx answers with a linear backoff
func (c *MinfinClient) download(ctx context.Context) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		body, err := c.sendRequest(ctx)
		if err == nil {
			return body, nil
		}
		if attempt >= c.retries || !retryable(err) || ctx.Err() != nil {
			return nil, inflation.Unavailable(c.url, "request", err)
		}

		delay := c.retryDelay * time.Duration(attempt+1)
		c.log.Warnf("Inflation source attempt %d failed: %v, retrying in %v", attempt+1, err, delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, inflation.Unavailable(c.url, "request", ctx.Err())
		}
	}
}

func retryable(err error) bool {
	if errors.Is(err, errBodyTooLarge) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.StatusCode >= http.StatusInternalServerError
	}
	return true
}

func (c *MinfinClient) parse(body []byte) ([]inflation.TableRow, error) {
	if c.format == config.FormatXML {
		return parseXMLTable(body)
	}
	return parseHTMLTable(body)
}

// Fetch retrieves and normalizes the full inflation series
func (c *MinfinClient) Fetch(ctx context.Context) (*models.InflationSeries, error) {
	body, err := c.download(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := c.parse(body)
	if err != nil {
		return nil, inflation.Unavailable(c.url, "parse", err)
	}

	series, dropped, err := inflation.BuildSeries(rows)
	if err != nil {
		return nil, inflation.Unavailable(c.url, "parse", err)
	}
	if dropped > 0 {
		c.log.Debugf("Skipped %d unpublished or unreadable monthly values", dropped)
	}

	c.log.Infof("Retrieved inflation table: %d months", series.Len())
	return series, nil
}
