package httpx

import (
	"net/http"

	"github.com/inkpress/inkpress/internal/shared"
)

// RespondError maps a classified domain error onto an RFC7807 response.
// Used by the plain HTTP endpoints; the RPC endpoint shapes errors into its
// envelope instead.
func RespondError(w http.ResponseWriter, err error) {
	switch shared.KindOf(err) {
	case shared.KindValidation:
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case shared.KindAuthentication:
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case shared.KindAuthorization:
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case shared.KindNotFound:
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case shared.KindConflict:
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
