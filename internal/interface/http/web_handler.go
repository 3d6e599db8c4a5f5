package handlers

import (
	"bytes"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-directory/internal/application"
	appErr "github.com/oksasatya/go-user-directory/pkg/errors"
	"github.com/oksasatya/go-user-directory/pkg/web/templates"
)

const (
	minSearchLen   = 2
	pageLinkWindow = 2
)

type listView struct {
	templates.Layout
	Page     userapp.Paginated[userapp.UserDTO]
	Links    []templates.PageLink
	PrevPage int
	NextPage int
}

type detailView struct {
	templates.Layout
	User userapp.UserDTO
}

type searchView struct {
	templates.Layout
	Users    []userapp.UserDTO
	Searched bool
	Error    string
}

type errorView struct {
	templates.Layout
	Status  int
	Message string
}

// WebHandler serves the server-rendered directory pages.
type WebHandler struct {
	Svc     UserDirectory
	AppName string
	Logger  *logrus.Logger
}

func NewWebHandler(svc UserDirectory, appName string, logger *logrus.Logger) *WebHandler {
	return &WebHandler{Svc: svc, AppName: appName, Logger: logger}
}

func (h *WebHandler) layout(query string) templates.Layout {
	return templates.Layout{AppName: h.AppName, Query: query}
}

// Index GET /?pageNumber=&pageSize=
func (h *WebHandler) Index(c *gin.Context) {
	page, size := ClampPaging(c)
	res, err := h.Svc.GetUsers(c.Request.Context(), page, size)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, templates.ListPage, listView{
		Layout:   h.layout(""),
		Page:     *res,
		Links:    templates.PageLinks(res.CurrentPage, res.TotalPages, pageLinkWindow),
		PrevPage: res.CurrentPage - 1,
		NextPage: res.CurrentPage + 1,
	})
}

// Detail GET /users/:id
func (h *WebHandler) Detail(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		h.renderError(c, appErr.Wrap(err, appErr.CodeInvalid, "invalid user id"))
		return
	}
	u, found, err := h.Svc.GetUserByID(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if !found {
		h.renderError(c, appErr.New(appErr.CodeNotFound, "user not found"))
		return
	}
	h.render(c, http.StatusOK, templates.DetailPage, detailView{Layout: h.layout(""), User: *u})
}

// Search GET /search?q=
func (h *WebHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	view := searchView{Layout: h.layout(q)}

	switch {
	case q == "":
		h.render(c, http.StatusOK, templates.SearchPage, view)
		return
	case utf8.RuneCountInString(q) < minSearchLen:
		view.Error = "Search term must be at least 2 characters"
		h.render(c, http.StatusBadRequest, templates.SearchPage, view)
		return
	}

	users, err := h.Svc.SearchUsers(c.Request.Context(), q)
	if err != nil {
		h.renderError(c, err)
		return
	}
	view.Users = users
	view.Searched = true
	h.render(c, http.StatusOK, templates.SearchPage, view)
}

// renderError records err for the error boundary, which logs it, and shows
// an error page without internal detail.
func (h *WebHandler) renderError(c *gin.Context, err error) {
	_ = c.Error(err)

	view := errorView{Layout: h.layout("")}
	switch appErr.CodeOf(err) {
	case appErr.CodeInvalid:
		view.Status, view.Message = http.StatusBadRequest, "The request was not valid."
	case appErr.CodeNotFound:
		view.Status, view.Message = http.StatusNotFound, "User not found."
	default:
		view.Status, view.Message = http.StatusInternalServerError, "Something went wrong. Please try again later."
	}
	h.render(c, view.Status, templates.ErrorPage, view)
}

func (h *WebHandler) render(c *gin.Context, status int, page string, data any) {
	var buf bytes.Buffer
	if err := templates.Render(&buf, page, data); err != nil {
		_ = c.Error(appErr.Wrap(err, appErr.CodeInternal, "render page failed"))
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
