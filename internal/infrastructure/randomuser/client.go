package randomuser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
	"github.com/oksasatya/go-user-directory/internal/domain/repository"
	appErr "github.com/oksasatya/go-user-directory/pkg/errors"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 4 << 20

// Client fetches generated users from a randomuser.me compatible API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *logrus.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

// FetchUsers requests one page of results. No retries are attempted.
func (c *Client) FetchUsers(ctx context.Context, page, results int) ([]entity.User, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("results", strconv.Itoa(results))
	endpoint := c.BaseURL + "/api/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "build random user request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "random user api unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, appErr.Wrap(fmt.Errorf("unexpected status %d", resp.StatusCode), appErr.CodeUnavailable, "random user api request failed").
			WithMeta("status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "read random user response")
	}

	users, err := decodeUsers(body)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "decode random user response")
	}

	if c.Logger != nil {
		c.Logger.WithFields(logrus.Fields{"page": page, "results": results, "received": len(users)}).Debug("fetched random users")
	}
	return users, nil
}

var _ repository.UserSource = (*Client)(nil)
