package helpers

import (
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// ESOptions configures the Elasticsearch client used for the user index.
type ESOptions struct {
	Addrs    []string
	Username string
	Password string
	// MaxRetries applies to 502/503/504 and connection errors. Zero keeps the client default.
	MaxRetries      int
	ResponseTimeout time.Duration
}

var errNoESAddrs = errors.New("elasticsearch: no addresses configured")

// NewESClient builds a client with bounded dials and header waits so a
// down cluster fails a request instead of stalling it.
func NewESClient(opts ESOptions) (*elasticsearch.Client, error) {
	if len(opts.Addrs) == 0 {
		return nil, errNoESAddrs
	}
	timeout := opts.ResponseTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	cfg := elasticsearch.Config{
		Addresses:     opts.Addrs,
		Username:      opts.Username,
		Password:      opts.Password,
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
		MaxRetries:    opts.MaxRetries,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: timeout,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}
