package randomuser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
)

// Fallbacks applied when the upstream payload omits a field.
const (
	UnknownName   = "Unknown"
	UnknownEmail  = "unknown@example.com"
	UnknownPhone  = "N/A"
	UnknownNumber = "0"
	UnknownStreet = "Unknown St"
)

// DecodeError reports a payload that could not be turned into users.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("randomuser: decode payload: %v", e.Err)
	}
	return fmt.Sprintf("randomuser: decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type apiResponse struct {
	Results []apiUser `json:"results"`
}

type apiUser struct {
	Name *struct {
		First *string `json:"first"`
		Last  *string `json:"last"`
	} `json:"name"`
	Email *string `json:"email"`
	Dob   *struct {
		Date *string `json:"date"`
	} `json:"dob"`
	Phone    *string `json:"phone"`
	Location *struct {
		Street *struct {
			Number flexString `json:"number"`
			Name   *string    `json:"name"`
		} `json:"street"`
	} `json:"location"`
	Picture *struct {
		Thumbnail *string `json:"thumbnail"`
	} `json:"picture"`
}

// flexString accepts a JSON string or number; null leaves it unset.
type flexString struct {
	Value string
	Set   bool
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f.Value, f.Set = s, true
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	f.Value, f.Set = n.String(), true
	return nil
}

func orDefault(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

// toUser builds a complete user from one upstream result, minting a new id.
func toUser(r apiUser) (entity.User, error) {
	u := entity.User{
		ID:             uuid.NewString(),
		FirstName:      UnknownName,
		LastName:       UnknownName,
		Email:          orDefault(r.Email, UnknownEmail),
		Phone:          orDefault(r.Phone, UnknownPhone),
		ProfilePicture: "",
	}
	if r.Name != nil {
		u.FirstName = orDefault(r.Name.First, UnknownName)
		u.LastName = orDefault(r.Name.Last, UnknownName)
	}
	if r.Dob != nil && r.Dob.Date != nil {
		dob, err := time.Parse(time.RFC3339, *r.Dob.Date)
		if err != nil {
			return entity.User{}, &DecodeError{Field: "dob.date", Err: err}
		}
		u.DateOfBirth = dob.UTC()
	}

	number, street := UnknownNumber, UnknownStreet
	if r.Location != nil && r.Location.Street != nil {
		if r.Location.Street.Number.Set {
			number = r.Location.Street.Number.Value
		}
		street = orDefault(r.Location.Street.Name, UnknownStreet)
	}
	u.Address = strings.TrimSpace(number + " " + street)

	if r.Picture != nil {
		u.ProfilePicture = orDefault(r.Picture.Thumbnail, "")
	}

	u.Clamp()
	return u, nil
}

// decodeUsers maps a whole response body; a single bad result fails the batch.
func decodeUsers(body []byte) ([]entity.User, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &DecodeError{Err: err}
	}
	out := make([]entity.User, 0, len(resp.Results))
	for i, r := range resp.Results {
		u, err := toUser(r)
		if err != nil {
			if de, ok := err.(*DecodeError); ok {
				de.Field = fmt.Sprintf("results[%d].%s", i, de.Field)
			}
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
