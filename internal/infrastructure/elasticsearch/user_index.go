package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
	"github.com/oksasatya/go-user-directory/internal/domain/repository"
	appErr "github.com/oksasatya/go-user-directory/pkg/errors"
)

// keyword fields keep whole values so wildcard queries match substrings
const indexMapping = `{
  "mappings": {
    "properties": {
      "id":             {"type": "keyword"},
      "firstName":      {"type": "keyword"},
      "lastName":       {"type": "keyword"},
      "email":          {"type": "keyword"},
      "dateOfBirth":    {"type": "date"},
      "phone":          {"type": "keyword", "index": false},
      "address":        {"type": "keyword", "index": false},
      "profilePicture": {"type": "keyword", "index": false},
      "createdAt":      {"type": "date"}
    }
  }
}`

type userDoc struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	DateOfBirth    time.Time `json:"dateOfBirth"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toDoc(u entity.User) userDoc {
	return userDoc{
		ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email,
		DateOfBirth: u.DateOfBirth, Phone: u.Phone, Address: u.Address,
		ProfilePicture: u.ProfilePicture, CreatedAt: u.CreatedAt,
	}
}

func (d userDoc) toUser() entity.User {
	return entity.User{
		ID: d.ID, FirstName: d.FirstName, LastName: d.LastName, Email: d.Email,
		DateOfBirth: d.DateOfBirth, Phone: d.Phone, Address: d.Address,
		ProfilePicture: d.ProfilePicture, CreatedAt: d.CreatedAt,
	}
}

// UserIndex stores user documents in one Elasticsearch index and serves
// substring search over names and email.
type UserIndex struct {
	client  *es.Client
	index   string
	size    int
	timeout time.Duration
	logger  *logrus.Logger
}

func NewUserIndex(client *es.Client, index string, size int, logger *logrus.Logger) *UserIndex {
	if size <= 0 {
		size = 1000
	}
	return &UserIndex{client: client, index: index, size: size, timeout: 5 * time.Second, logger: logger}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *UserIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	res, err := x.client.Indices.Exists([]string{x.index}, x.client.Indices.Exists.WithContext(c))
	if err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "elasticsearch unreachable")
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = x.client.Indices.Create(x.index,
		x.client.Indices.Create.WithContext(c),
		x.client.Indices.Create.WithBody(strings.NewReader(indexMapping)))
	if err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "elasticsearch unreachable")
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		// lost a race with another creator
		if strings.Contains(readBody(res.Body), "resource_already_exists_exception") {
			return nil
		}
		return appErr.New(appErr.CodeInternal, "create index failed").WithMeta("status", res.Status())
	}
	if x.logger != nil {
		x.logger.WithField("index", x.index).Info("elasticsearch index created")
	}
	return nil
}

// IndexUsers bulk-indexes users keyed by id.
func (x *UserIndex) IndexUsers(ctx context.Context, users []entity.User) error {
	if len(users) == 0 {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, u := range users {
		meta := map[string]any{"index": map[string]any{"_id": u.ID}}
		if err := enc.Encode(meta); err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "encode bulk request failed")
		}
		if err := enc.Encode(toDoc(u)); err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "encode bulk request failed")
		}
	}

	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	req := esapi.BulkRequest{Index: x.index, Body: &buf, Refresh: "wait_for"}
	res, err := req.Do(c, x.client)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "elasticsearch unreachable")
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return appErr.New(appErr.CodeInternal, "bulk index failed").WithMeta("status", res.Status())
	}

	var parsed struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "decode bulk response failed")
	}
	if parsed.Errors {
		failed := 0
		for _, item := range parsed.Items {
			for _, r := range item {
				if r.Status >= 300 {
					failed++
				}
			}
		}
		return appErr.New(appErr.CodeInternal, fmt.Sprintf("bulk index rejected %d of %d documents", failed, len(users)))
	}
	return nil
}

// Search returns users whose first name, last name or email contains term,
// ignoring case.
func (x *UserIndex) Search(ctx context.Context, term string) ([]entity.User, error) {
	pattern := "*" + escapeWildcard(term) + "*"
	should := make([]any, 0, 3)
	for _, field := range []string{"firstName", "lastName", "email"} {
		should = append(should, map[string]any{
			"wildcard": map[string]any{
				field: map[string]any{"value": pattern, "case_insensitive": true},
			},
		})
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"should": should, "minimum_should_match": 1},
		},
		"sort": []any{map[string]any{"createdAt": "asc"}, map[string]any{"id": "asc"}},
		"size": x.size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "encode search failed")
	}

	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	res, err := x.client.Search(
		x.client.Search.WithContext(c),
		x.client.Search.WithIndex(x.index),
		x.client.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "elasticsearch unreachable")
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, appErr.New(appErr.CodeInternal, "search users failed").WithMeta("status", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source userDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "decode search response failed")
	}

	out := make([]entity.User, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.toUser())
	}
	return out, nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(term string) string {
	return wildcardEscaper.Replace(term)
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 64<<10))
	return string(b)
}

var _ repository.UserSearcher = (*UserIndex)(nil)
