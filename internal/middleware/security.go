package middleware

import (
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets the hardening headers of a JSON-only API.
// In development the headers are skipped.
func SecurityHeaders(development bool) gin.HandlerFunc {
	return secure.New(secure.Config{
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
		IsDevelopment:         development,
	})
}
