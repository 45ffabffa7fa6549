package handler

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/local-guide/service-booking/internal/domain"
)

var validate = validator.New()

// bindStrictJSON decodes the request body into obj, rejecting unknown or
// malformed fields, then applies struct-level validation. Request bodies are
// closed schemas; caller-shaped extras are an error, not a shrug.
func bindStrictJSON(c *gin.Context, obj interface{}) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return domain.NewInvalidInputError("malformed request body: " + err.Error())
	}
	if err := validate.Struct(obj); err != nil {
		return domain.NewInvalidInputError(err.Error())
	}
	return nil
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
