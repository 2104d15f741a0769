package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/josh-kwaku/wallet-ledger/internal/auth"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// accountFromPath returns the caller and the account named in the path.
// Ownership itself is enforced by the scoped lookups in the services, which
// answer NotFound for accounts the caller does not own.
func accountFromPath(r *http.Request) (userID, accountID uuid.UUID, appErr *AppError) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, uuid.Nil, ErrMissingToken
	}

	accountID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, ErrAccountNotFound
	}
	return userID, accountID, nil
}

func pagination(r *http.Request) (limit, offset int, fields []FieldError) {
	limit, offset = defaultPageLimit, 0
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageLimit {
			fields = append(fields, FieldError{Field: "limit", Message: "must be between 1 and 100"})
		} else {
			limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fields = append(fields, FieldError{Field: "offset", Message: "must be zero or greater"})
		} else {
			offset = n
		}
	}
	return limit, offset, fields
}
