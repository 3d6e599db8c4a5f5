package application

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
)

func TestNewPaginated_TotalPagesRoundsUp(t *testing.T) {
	cases := []struct {
		total int64
		size  int
		want  int
	}{
		{total: 50, size: 10, want: 5},
		{total: 51, size: 10, want: 6},
		{total: 0, size: 10, want: 0},
		{total: 1, size: 100, want: 1},
		{total: 7, size: 0, want: 0},
	}
	for _, tc := range cases {
		p := NewPaginated[int](nil, tc.total, 1, tc.size)
		assert.Equal(t, tc.want, p.TotalPages, "total=%d size=%d", tc.total, tc.size)
		assert.NotNil(t, p.Items)
	}
}

func TestPaginated_Navigation(t *testing.T) {
	first := NewPaginated([]int{1}, 30, 1, 10)
	assert.False(t, first.HasPrevious())
	assert.True(t, first.HasNext())

	last := NewPaginated([]int{1}, 30, 3, 10)
	assert.True(t, last.HasPrevious())
	assert.False(t, last.HasNext())
}

func TestUserDTO_JSONShape(t *testing.T) {
	u := entity.User{
		ID: "0f8fad5b-d9cb-469f-a165-70867728950e", FirstName: "John", LastName: "Doe",
		Email: "john@example.com", DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Phone: "123", Address: "1 Main St", ProfilePicture: "http://example.com/p.jpg",
		CreatedAt: time.Now(),
	}
	b, err := json.Marshal(ToUserDTO(u))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id":"0f8fad5b-d9cb-469f-a165-70867728950e",
		"firstName":"John","lastName":"Doe","email":"john@example.com",
		"dateOfBirth":"1990-01-01T00:00:00Z","phone":"123",
		"address":"1 Main St","profilePicture":"http://example.com/p.jpg"
	}`, string(b))

	back := ToUserDTO(u).ToEntity()
	assert.Equal(t, u.ID, back.ID)
	assert.True(t, back.CreatedAt.IsZero())
}

func TestPaginated_JSONShape(t *testing.T) {
	b, err := json.Marshal(NewPaginated([]UserDTO{}, 0, 1, 10))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"totalCount":0,"pageSize":10,"currentPage":1,"totalPages":0}`, string(b))
}
