package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// TrustProxies limits which peers may supply X-Forwarded-For or X-Real-IP. With no proxies
// configured the headers are ignored and the connection address identifies the client.
func TrustProxies(r *gin.Engine, proxies []string) error {
	var trusted []string
	for _, p := range proxies {
		if p = strings.TrimSpace(p); p != "" {
			trusted = append(trusted, p)
		}
	}
	r.ForwardedByClientIP = len(trusted) > 0
	r.RemoteIPHeaders = []string{"X-Forwarded-For", "X-Real-IP"}
	if err := r.SetTrustedProxies(trusted); err != nil {
		return fmt.Errorf("invalid trusted proxies %v: %w", trusted, err)
	}
	return nil
}

// getClientIP resolves the caller through gin, which only honours forwarding headers
// set by a trusted proxy.
func getClientIP(c *gin.Context) string {
	return c.ClientIP()
}
