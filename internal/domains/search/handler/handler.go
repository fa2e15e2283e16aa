package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"poultry-market-backend/internal/domains/search/service"
	"poultry-market-backend/internal/shared/response"
)

const maxBodyBytes = 64 << 10

type SearchHandler struct {
	compiler *service.Compiler
	searcher service.ServiceInterface
}

func NewSearchHandler(compiler *service.Compiler, searcher service.ServiceInterface) *SearchHandler {
	return &SearchHandler{compiler: compiler, searcher: searcher}
}

// Search filters listings from the query string
// GET /api/v1/search
// GET /api/v1/listings
func (h *SearchHandler) Search(c *gin.Context) {
	h.run(c, queryParams(c), false)
}

// AdvancedSearch accepts the same parameters as a JSON object
// POST /api/v1/advanced-search
func (h *SearchHandler) AdvancedSearch(c *gin.Context) {
	params, err := bodyParams(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.run(c, params, false)
}

// AdminSearch includes deactivated listings
// GET /api/v1/admin/search
func (h *SearchHandler) AdminSearch(c *gin.Context) {
	h.run(c, queryParams(c), true)
}

func (h *SearchHandler) run(c *gin.Context, params service.Params, admin bool) {
	filter, page, err := h.compiler.Compile(params)
	if err != nil {
		response.FromError(c, err)
		return
	}

	var result *service.Result
	if admin {
		result, err = h.searcher.AdminSearch(c.Request.Context(), filter, page)
	} else {
		result, err = h.searcher.Search(c.Request.Context(), filter, page)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Items, &response.Meta{
		Limit:   result.Limit,
		Offset:  result.Offset,
		HasMore: result.HasMore,
	})
}

// queryParams keeps the first value of each query key.
func queryParams(c *gin.Context) service.Params {
	values := c.Request.URL.Query()
	params := make(service.Params, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

// bodyParams flattens a JSON object into string parameters. Nested values
// are rejected; null means absent.
func bodyParams(c *gin.Context) (service.Params, error) {
	dec := json.NewDecoder(io.LimitReader(c.Request.Body, maxBodyBytes))
	dec.UseNumber()

	var body map[string]interface{}
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return service.Params{}, nil
		}
		return nil, fmt.Errorf("invalid JSON body")
	}

	params := make(service.Params, len(body))
	for k, v := range body {
		switch val := v.(type) {
		case nil:
		case string:
			params[k] = val
		case json.Number:
			params[k] = val.String()
		case bool:
			params[k] = strconv.FormatBool(val)
		default:
			return nil, fmt.Errorf("field %q must be a scalar", k)
		}
	}
	return params, nil
}
