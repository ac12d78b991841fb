// Package handlers exposes the application services over HTTP.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ecnelisfly/pkg/common"
	pkgerrors "ecnelisfly/pkg/errors"
	"ecnelisfly/pkg/utils"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// base carries what every handler needs to answer requests
type base struct {
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

func newBase(errs *pkgerrors.ErrorHandler, logger *zap.Logger) base {
	return base{errors: errs, logger: logger}
}

// decode parses and validates a JSON body. It writes the error response and
// returns false when the body is unusable.
func (b base) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := common.ParseJSONBody(w, r, v, maxBodyBytes); err != nil {
		appErr := pkgerrors.NewValidationError("invalid request body").WithCause(err)
		if errors.Is(err, common.ErrEmptyBody) {
			appErr = pkgerrors.NewValidationError("request body is required")
		}
		b.errors.Handle(w, r, appErr)
		return false
	}
	if err := utils.ValidateStruct(v); err != nil {
		b.errors.Handle(w, r, err)
		return false
	}
	return true
}

func (b base) ok(w http.ResponseWriter, data interface{}) {
	common.RespondJSON(w, http.StatusOK, data)
}

func (b base) created(w http.ResponseWriter, data interface{}) {
	common.RespondJSON(w, http.StatusCreated, data)
}

func (b base) noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	b.errors.Handle(w, r, err)
}

// callerID returns the authenticated user id, answering 401 when absent
func (b base) callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := common.GetUserID(r.Context())
	if !ok {
		b.errors.HandleStatus(w, r, http.StatusUnauthorized, "authentication required")
	}
	return id, ok
}

func param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// intQuery reads an integer query parameter, falling back to def
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.NewFieldError(name, name+" must be an integer")
	}
	return n, nil
}

// floatQuery reads a required float query parameter
func floatQuery(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, pkgerrors.NewFieldError(name, name+" is required")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, pkgerrors.NewFieldError(name, name+" must be a number")
	}
	return f, nil
}
