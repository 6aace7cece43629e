package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/simonsobs/mapcat/internal/constants"
	"github.com/simonsobs/mapcat/internal/sky"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) ToMap() map[string]string {
	return map[string]string{e.Field: e.Message}
}

func ToMap(errs []ValidationError) map[string]string {
	result := make(map[string]string)
	for _, e := range errs {
		result[e.Field] = e.Message
	}
	return result
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// ParseID parses a positive id path parameter.
func ParseID(raw string) (int64, []ValidationError) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, []ValidationError{{Field: "id", Message: "must be a positive integer"}}
	}
	return id, nil
}

// ParseTile parses tile indices and checks them against the sky grid.
func ParseTile(rawX, rawY string) (sky.Tile, []ValidationError) {
	var errs []ValidationError
	x, err := strconv.Atoi(rawX)
	if err != nil {
		errs = append(errs, ValidationError{Field: "x", Message: "must be an integer"})
	} else if x < 0 || x >= sky.GridWidth {
		errs = append(errs, ValidationError{Field: "x", Message: fmt.Sprintf("must be between 0 and %d", sky.GridWidth-1)})
	}

	y, err := strconv.Atoi(rawY)
	if err != nil {
		errs = append(errs, ValidationError{Field: "y", Message: "must be an integer"})
	} else if y < 0 || y >= sky.GridHeight {
		errs = append(errs, ValidationError{Field: "y", Message: fmt.Sprintf("must be between 0 and %d", sky.GridHeight-1)})
	}
	return sky.Tile{X: x, Y: y}, errs
}

// ParseLimit reads an optional list limit, defaulting and capping it.
func ParseLimit(raw string) (int, []ValidationError) {
	if raw == "" {
		return constants.DefaultListLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, []ValidationError{{Field: "limit", Message: "must be a positive integer"}}
	}
	if n > constants.MaxListLimit {
		n = constants.MaxListLimit
	}
	return n, nil
}

// ParseObsID checks the obs_<ctime>_... form without parsing the ctime.
func ParseObsID(raw string) (string, []ValidationError) {
	if !strings.HasPrefix(raw, "obs_") || len(raw) < len("obs_")+10 {
		return "", []ValidationError{{Field: "obs_id", Message: "must look like obs_<ctime>_<platform>_<suffix>"}}
	}
	return raw, nil
}
