package http

import (
	"net/http"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/auth"
	"github.com/cmlabs-hris/resto-settlement-go/internal/handler/http/response"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService jwt.Service
}

func NewAuthHandler(jwtService jwt.Service) AuthHandler {
	return &AuthHandlerImpl{jwtService: jwtService}
}

type operatorResponse struct {
	OperatorID string    `json:"operator_id"`
	Role       auth.Role `json:"role"`
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	sub, _ := claims[auth.ClaimSubject].(string)
	role, _ := claims[auth.ClaimRole].(string)
	response.Success(w, operatorResponse{OperatorID: sub, Role: auth.Role(role)})
}

// Logout implements AuthHandler. The presented access token is rejected
// from then on.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	token := jwtauth.TokenFromHeader(r)
	if token == "" {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	a.jwtService.RevokeToken(token)
	response.SuccessWithMessage(w, "Logged out", nil)
}
