package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
)

// RequirePayrollAdmin requires admin or owner role. Read endpoints are open
// to any authenticated member of the company; mutations are not.
func RequirePayrollAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Payroll admin access required")
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			response.Forbidden(w, "Payroll admin access required")
			return
		}

		if role != "admin" && role != "owner" {
			response.Forbidden(w, "Payroll admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireCompany rejects tokens without a company_id claim.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Company membership required")
			return
		}

		companyID, ok := claims["company_id"].(string)
		if !ok || companyID == "" {
			response.Unauthorized(w, "Company membership required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
