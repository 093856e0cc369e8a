package handling

import (
	"ashtray_server/lib"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ListOptions carries the pagination and filter parameters shared by list endpoints.
type ListOptions struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]string
}

// ParseListOptions reads page, page_size, q and the named filters from the query string.
func ParseListOptions(r *http.Request, filters ...string) (*ListOptions, error) {
	query := r.URL.Query()

	opts := &ListOptions{
		Page:     1,
		PageSize: 20,
		Search:   strings.TrimSpace(query.Get("q")),
		Filters:  make(map[string]string, len(filters)),
	}

	if page := query.Get("page"); page != "" {
		v, err := strconv.Atoi(page)
		if err != nil || v < 1 {
			return nil, lib.NewValidationError("page must be a positive integer")
		}
		opts.Page = v
	}

	if pageSize := query.Get("page_size"); pageSize != "" {
		v, err := strconv.Atoi(pageSize)
		if err != nil || v < 1 {
			return nil, lib.NewValidationError("page_size must be a positive integer")
		}
		opts.PageSize = min(v, 100)
	}

	for _, name := range filters {
		if v := strings.TrimSpace(query.Get(name)); v != "" {
			opts.Filters[name] = v
		}
	}

	return opts, nil
}

// ParseID parses a positive integer path parameter.
func ParseID(raw, resource string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, lib.NewValidationError("invalid %s id", resource)
	}
	return id, nil
}

func ParseUUID(raw, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, lib.NewValidationError("invalid %s id", resource)
	}
	return id, nil
}
