package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

var errMissingIdentity = errors.New("token is missing identity claims")

// identityFromRequest pulls the acting user and company out of the verified
// token. The middleware chain guarantees both claims are present, so a miss
// here means a malformed token slipped through.
func identityFromRequest(r *http.Request) (companyID string, userID string, err error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", "", err
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", errMissingIdentity
	}

	userID, ok = claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", errMissingIdentity
	}

	return companyID, userID, nil
}
