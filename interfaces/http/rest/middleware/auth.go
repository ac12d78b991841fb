package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	"go.uber.org/zap"

	"ecnelisfly/pkg/auth"
	"ecnelisfly/pkg/common"
)

// Authenticator resolves the caller from API Gateway authorizer claims when
// running behind the Lambda proxy, or from a bearer token otherwise.
type Authenticator struct {
	validator *auth.JWTValidator
	logger    *zap.Logger
}

// NewAuthenticator creates an authenticator. A nil validator accepts only
// API Gateway claims.
func NewAuthenticator(validator *auth.JWTValidator, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		validator: validator,
		logger:    logger,
	}
}

// Authenticate rejects requests without a valid caller
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.claims(r)
		if err != nil {
			a.unauthorized(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r, claims)))
	})
}

// Optional attaches the caller when credentials are present. Requests
// without credentials pass through anonymously; invalid ones are rejected.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.claims(r)
		switch {
		case errors.Is(err, auth.ErrMissingToken):
			next.ServeHTTP(w, r)
		case err != nil:
			a.unauthorized(w, r, err)
		default:
			next.ServeHTTP(w, r.WithContext(withClaims(r, claims)))
		}
	})
}

func (a *Authenticator) claims(r *http.Request) (*auth.Claims, error) {
	if proxyCtx, ok := core.GetAPIGatewayV2ContextFromContext(r.Context()); ok {
		if proxyCtx.Authorizer != nil && proxyCtx.Authorizer.JWT != nil {
			return auth.ClaimsFromAuthorizer(proxyCtx.Authorizer.JWT.Claims)
		}
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, auth.ErrMissingToken
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return nil, auth.ErrInvalidToken
	}
	if a.validator == nil {
		return nil, auth.ErrInvalidToken
	}
	return a.validator.ValidateToken(token)
}

func (a *Authenticator) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	message := "Invalid token"
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		message = "Missing authorization header"
	case errors.Is(err, auth.ErrExpiredToken):
		message = "Token has expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		message = "Invalid token signature"
	}
	a.logger.Debug("Authentication rejected", zap.String("path", r.URL.Path), zap.Error(err))
	common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, message)
}

func withClaims(r *http.Request, claims *auth.Claims) context.Context {
	ctx := common.WithUserID(r.Context(), claims.UserID())
	ctx = common.WithUsername(ctx, claims.Username)
	return common.WithGroups(ctx, claims.Groups)
}

// RequireGroup lets through only callers that belong to group. It must run
// after Authenticate.
func RequireGroup(group string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := common.GetUserID(r.Context()); !ok {
				common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Authentication required")
				return
			}
			if !common.InGroup(r.Context(), group) {
				common.RespondError(w, http.StatusForbidden, common.StandardErrorCodes.Forbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
