// Package pagination normalizes page-size inputs for list endpoints.
package pagination

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPageSize reports a page size that is not an integer in range.
var ErrInvalidPageSize = errors.New("page size is invalid")

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ParsePageSize reads a raw page_size value. Blank input yields cfg.Default;
// anything else must be an integer in 1..cfg.Max.
func ParsePageSize(raw string, cfg PageSizeConfig) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		if cfg.Default <= 0 {
			return 1, nil
		}
		return cfg.Default, nil
	}
	pageSize, err := strconv.Atoi(value)
	if err != nil || pageSize < 1 || (cfg.Max > 0 && pageSize > cfg.Max) {
		return 0, fmt.Errorf("%w: must be an integer between 1 and %d", ErrInvalidPageSize, cfg.Max)
	}
	return pageSize, nil
}
