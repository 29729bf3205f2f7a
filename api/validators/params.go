package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// ParseIDParam reads a positive integer route parameter. Malformed ids are NotFound, the same
// as ids that do not exist.
func ParseIDParam(r *http.Request, name string) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "Item not found!")
	}
	return uint(id), nil
}

// SanitizeString trims and truncates free-form input.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
