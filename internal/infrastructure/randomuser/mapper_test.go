package randomuser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
)

const fullPayload = `{"results":[{
	"name":{"title":"Mr","first":"Brad","last":"Gibson"},
	"email":"brad.gibson@example.com",
	"dob":{"date":"1993-07-20T09:44:18.674Z","age":26},
	"phone":"011-962-7516",
	"location":{"street":{"number":9278,"name":"New Road"},"city":"Kilcoole"},
	"picture":{"thumbnail":"https://randomuser.me/api/portraits/thumb/men/75.jpg"}
}]}`

func TestDecodeUsers_FullRecord(t *testing.T) {
	users, err := decodeUsers([]byte(fullPayload))
	require.NoError(t, err)
	require.Len(t, users, 1)

	u := users[0]
	_, err = uuid.Parse(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brad", u.FirstName)
	assert.Equal(t, "Gibson", u.LastName)
	assert.Equal(t, "brad.gibson@example.com", u.Email)
	assert.Equal(t, time.Date(1993, 7, 20, 9, 44, 18, 674000000, time.UTC), u.DateOfBirth)
	assert.Equal(t, "011-962-7516", u.Phone)
	assert.Equal(t, "9278 New Road", u.Address)
	assert.Equal(t, "https://randomuser.me/api/portraits/thumb/men/75.jpg", u.ProfilePicture)
}

func TestDecodeUsers_MissingFieldsUseFallbacks(t *testing.T) {
	users, err := decodeUsers([]byte(`{"results":[{}]}`))
	require.NoError(t, err)
	require.Len(t, users, 1)

	u := users[0]
	assert.Equal(t, UnknownName, u.FirstName)
	assert.Equal(t, UnknownName, u.LastName)
	assert.Equal(t, UnknownEmail, u.Email)
	assert.True(t, u.DateOfBirth.IsZero())
	assert.Equal(t, UnknownPhone, u.Phone)
	assert.Equal(t, "0 Unknown St", u.Address)
	assert.Equal(t, "", u.ProfilePicture)
}

func TestDecodeUsers_PartialStreet(t *testing.T) {
	users, err := decodeUsers([]byte(`{"results":[
		{"location":{"street":{"number":"12B"}}},
		{"location":{"street":{"name":"Elm St"}}},
		{"name":{"first":"Ana"}}
	]}`))
	require.NoError(t, err)
	require.Len(t, users, 3)

	assert.Equal(t, "12B Unknown St", users[0].Address)
	assert.Equal(t, "0 Elm St", users[1].Address)
	assert.Equal(t, "Ana", users[2].FirstName)
	assert.Equal(t, UnknownName, users[2].LastName)
}

func TestDecodeUsers_EveryCallMintsNewIDs(t *testing.T) {
	a, err := decodeUsers([]byte(fullPayload))
	require.NoError(t, err)
	b, err := decodeUsers([]byte(fullPayload))
	require.NoError(t, err)

	assert.NotEqual(t, a[0].ID, b[0].ID)
}

func TestDecodeUsers_NoResults(t *testing.T) {
	users, err := decodeUsers([]byte(`{"info":{"seed":"abc"}}`))
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestDecodeUsers_MalformedJSON(t *testing.T) {
	_, err := decodeUsers([]byte(`{"results":[`))

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Empty(t, de.Field)
}

func TestDecodeUsers_BadDateIsTypedError(t *testing.T) {
	_, err := decodeUsers([]byte(`{"results":[{},{"dob":{"date":"20th of July"}}]}`))

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "results[1].dob.date", de.Field)
}

func TestDecodeUsers_ClampsLongValues(t *testing.T) {
	long := strings.Repeat("9", 30)
	users, err := decodeUsers([]byte(`{"results":[{"phone":"` + long + `"}]}`))
	require.NoError(t, err)

	assert.Len(t, users[0].Phone, entity.MaxPhoneLen)
}
