// Package handlers holds the thin HTTP layer: decode, validate, call a service, write the envelope.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/utils"
)

const (
	defaultLimit = 100
	maxLimit     = 1000

	// maxBodyBytes bounds JSON request bodies
	maxBodyBytes = 1 << 20
)

// errInvalidBody is returned when a request body is not valid JSON
var errInvalidBody = errors.New("invalid request body")

// decodeJSON decodes a JSON body into dst and validates it.
// Validation failures come back as *utils.ValidationError.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return utils.ValidateStruct(dst)
}

// pagination reads skip and limit. skip below zero becomes 0, limit is clamped to 1..1000.
func pagination(r *http.Request) (skip, limit int) {
	q := r.URL.Query()
	skip = queryInt(q.Get("skip"), 0)
	if skip < 0 {
		skip = 0
	}
	limit = queryInt(q.Get("limit"), defaultLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit
}

// queryBool parses a boolean query value, returning def when absent or malformed
func queryBool(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func queryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// pathID parses the {id} URL parameter. On failure it writes 400 "Invalid <kind> ID format".
func pathID(w http.ResponseWriter, r *http.Request, kind string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid "+kind+" ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}
