package application

import (
	"time"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
)

// UserDTO is the transport shape of a user.
type UserDTO struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	DateOfBirth    time.Time `json:"dateOfBirth"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	ProfilePicture string    `json:"profilePicture"`
}

func ToUserDTO(u entity.User) UserDTO {
	return UserDTO{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		DateOfBirth:    u.DateOfBirth.UTC(),
		Phone:          u.Phone,
		Address:        u.Address,
		ProfilePicture: u.ProfilePicture,
	}
}

// ToEntity is the inverse of ToUserDTO, minus bookkeeping timestamps.
func (d UserDTO) ToEntity() entity.User {
	return entity.User{
		ID:             d.ID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		DateOfBirth:    d.DateOfBirth,
		Phone:          d.Phone,
		Address:        d.Address,
		ProfilePicture: d.ProfilePicture,
	}
}

func toUserDTOs(users []entity.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserDTO(u))
	}
	return out
}

// Paginated is one page of items plus the totals needed to render paging controls.
type Paginated[T any] struct {
	Items       []T   `json:"items"`
	TotalCount  int64 `json:"totalCount"`
	PageSize    int   `json:"pageSize"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
}

func NewPaginated[T any](items []T, total int64, page, size int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Paginated[T]{
		Items:       items,
		TotalCount:  total,
		PageSize:    size,
		CurrentPage: page,
		TotalPages:  pages,
	}
}

// HasPrevious and HasNext drive the pagination controls of the web views.
func (p Paginated[T]) HasPrevious() bool { return p.CurrentPage > 1 }

func (p Paginated[T]) HasNext() bool { return p.CurrentPage < p.TotalPages }
