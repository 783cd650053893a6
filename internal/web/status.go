package web

import (
	"net/http"

	"github.com/gym-infra/gameservers-dashboard/internal/cluster"
)

// httpStatusFor maps a classified cluster error to the HTTP status the
// dashboard reports. Unclassified errors count as an unreachable cluster.
func httpStatusFor(err error) int {
	switch cluster.CodeOf(err) {
	case cluster.ErrAuthFailed:
		return http.StatusUnauthorized
	case cluster.ErrForbidden:
		return http.StatusForbidden
	case cluster.ErrNotFound:
		return http.StatusNotFound
	case cluster.ErrConflict:
		return http.StatusConflict
	case cluster.ErrTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
