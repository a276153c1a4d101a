package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"foodgram/internal/auth"
	"foodgram/internal/config"
	"foodgram/internal/logger"
	"foodgram/internal/media"
	"foodgram/internal/models"
	"foodgram/internal/store"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// newValidator returns a validator that reports fields by their JSON names and
// knows the "username" rule. "me" is reserved for the current-user endpoint.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return usernamePattern.MatchString(value) && !strings.EqualFold(value, "me")
	})
	return v
}

// validationResponse lists failing fields as "path": "rule[=param]".
func validationResponse(err error) gin.H {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return gin.H{"error": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[path] = rule
	}
	return gin.H{"error": "Validation failed", "fields": fields}
}

// bindAndValidate decodes the JSON body into req and validates it, answering 400 on failure.
func bindAndValidate(c *gin.Context, v *validator.Validate, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	if err := v.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, validationResponse(err))
		return false
	}
	return true
}

func requireUser(c *gin.Context) (int, bool) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	return userID, true
}

// viewerID is the authenticated user or 0 for anonymous requests.
func viewerID(c *gin.Context) int {
	userID, _ := auth.GetUserID(c)
	return userID
}

func parseID(c *gin.Context, param string) (int, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return id, true
}

// respondError maps store and media sentinels to HTTP statuses. Anything else is
// logged and reported as a 500 without details.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Object already exists"})
	case errors.Is(err, store.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Referenced object does not exist"})
	case errors.Is(err, store.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid argument"})
	case errors.Is(err, media.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// pageRequest is a 1-based page of Limit items.
type pageRequest struct {
	Page  int
	Limit int
}

func (p pageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// parsePage reads "page" and "limit". A malformed page is a 404 like an out of
// range one; a malformed limit falls back to the configured page size.
func parsePage(c *gin.Context, cfg config.PaginationConfig) (pageRequest, bool) {
	p := pageRequest{Page: 1, Limit: cfg.PageSize}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid page"})
			return p, false
		}
		p.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			p.Limit = limit
		}
	}
	if cfg.MaxLimit > 0 && p.Limit > cfg.MaxLimit {
		p.Limit = cfg.MaxLimit
	}
	return p, true
}

// writePage answers with the paginated envelope, or 404 when the page lies past the end.
func writePage[T any](c *gin.Context, p pageRequest, count int, results []T) {
	if p.Page > 1 && p.Offset() >= count {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid page"})
		return
	}
	c.JSON(http.StatusOK, newPage(c, p, count, results))
}

func newPage[T any](c *gin.Context, p pageRequest, count int, results []T) models.Page[T] {
	page := models.Page[T]{Count: count, Results: results}
	if page.Results == nil {
		page.Results = []T{}
	}
	if p.Page*p.Limit < count {
		next := pageURL(c, p.Page+1)
		page.Next = &next
	}
	if p.Page > 1 {
		previous := pageURL(c, p.Page-1)
		page.Previous = &previous
	}
	return page
}

// pageURL rebuilds the request URL with another page number; page 1 drops the parameter.
func pageURL(c *gin.Context, page int) string {
	u := *c.Request.URL
	u.Scheme = "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		u.Scheme = "https"
	}
	u.Host = c.Request.Host

	query := u.Query()
	if page == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = query.Encode()
	return u.String()
}
