package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/cart/internal/domain"
)

// Стабильные машинные коды ошибок: клиенты разбирают code, а не текст message.
const (
	CodeInvalidArgument  = "invalid_argument"
	CodeNotFound         = "not_found"
	CodeConflict         = "conflict"
	CodeStoreUnavailable = "store_unavailable"
	CodeInternal         = "internal"
)

// APIError — тело ошибки в ответе API.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope — конверт ошибки, единый для всех ручек.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Code: code, Message: msg}})
}

// respondDomainError переводит доменную ошибку в HTTP-статус и машинный код.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsInvalidArgument(err):
		respondError(c, http.StatusBadRequest, CodeInvalidArgument, err)
	case errors.Is(err, domain.ErrCartLineNotFound), errors.Is(err, domain.ErrCatalogItemNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, err)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, CodeConflict, err)
	case errors.Is(err, domain.ErrStoreUnavailable):
		respondError(c, http.StatusServiceUnavailable, CodeStoreUnavailable, domain.ErrStoreUnavailable)
	default:
		respondError(c, http.StatusInternalServerError, CodeInternal, err)
	}
}
