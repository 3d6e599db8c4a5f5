package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-directory/internal/application"
	appErr "github.com/oksasatya/go-user-directory/pkg/errors"
	"github.com/oksasatya/go-user-directory/pkg/validation"
)

// Paging bounds applied before the service is called.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 100
)

// UserDirectory is the part of the directory service the handlers use.
type UserDirectory interface {
	GetUsers(ctx context.Context, page, size int) (*userapp.Paginated[userapp.UserDTO], error)
	GetUserByID(ctx context.Context, id string) (*userapp.UserDTO, bool, error)
	SearchUsers(ctx context.Context, term string) ([]userapp.UserDTO, error)
}

type UserHandler struct {
	Svc    UserDirectory
	Logger *logrus.Logger
}

func NewUserHandler(svc UserDirectory, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type searchRequest struct {
	Query string `form:"query" binding:"searchterm"`
}

// ClampPaging reads pageNumber and pageSize, replacing unusable values
// with the defaults instead of rejecting the request.
func ClampPaging(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.Query("pageNumber"))
	if err != nil || page < 1 {
		page = DefaultPageNumber
	}
	size, err = strconv.Atoi(c.Query("pageSize"))
	if err != nil || size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return page, size
}

// List GET /api/users?pageNumber=&pageSize=
func (h *UserHandler) List(c *gin.Context) {
	page, size := ClampPaging(c)
	res, err := h.Svc.GetUsers(c.Request.Context(), page, size)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		_ = c.Error(appErr.Wrap(err, appErr.CodeInvalid, "invalid user id"))
		return
	}
	u, found, err := h.Svc.GetUserByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !found {
		_ = c.Error(appErr.New(appErr.CodeNotFound, "user not found").WithMeta("id", id))
		return
	}
	c.JSON(http.StatusOK, u)
}

// Search GET /api/users/search?query=
func (h *UserHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		_ = c.Error(appErr.Wrap(err, appErr.CodeInvalid, "invalid search query").WithMeta("details", validation.ToDetails(err)))
		return
	}
	users, err := h.Svc.SearchUsers(c.Request.Context(), req.Query)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, users)
}
