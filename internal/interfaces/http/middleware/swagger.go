package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SwaggerConfig controls access to the API documentation endpoints.
type SwaggerConfig struct {
	Enabled    bool     // serve documentation at all
	AllowedIPs []string // IPs or CIDR ranges allowed through, empty means everyone
}

// ipAllowlist holds pre-parsed IPs and networks so the per-request
// check never re-parses config strings.
type ipAllowlist struct {
	ips  []net.IP
	nets []*net.IPNet
}

func parseAllowlist(entries []string) ipAllowlist {
	var list ipAllowlist
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			if _, network, err := net.ParseCIDR(entry); err == nil {
				list.nets = append(list.nets, network)
			}
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			list.ips = append(list.ips, ip)
		}
	}
	return list
}

func (l ipAllowlist) contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, allowed := range l.ips {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, network := range l.nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// SwaggerProtection guards the documentation routes. When disabled it
// answers 404 so the endpoint is indistinguishable from a missing route;
// with a non-empty allowlist it rejects everyone else with 403.
func SwaggerProtection(cfg SwaggerConfig) gin.HandlerFunc {
	allowlist := parseAllowlist(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "API documentation is not available",
			})
			return
		}

		if len(cfg.AllowedIPs) > 0 && !allowlist.contains(clientIP(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Access to API documentation is restricted",
			})
			return
		}

		c.Next()
	}
}

// clientIP resolves the caller's address, preferring gin's ClientIP which
// understands trusted proxy headers, falling back to the raw RemoteAddr.
func clientIP(c *gin.Context) net.IP {
	if ip := net.ParseIP(c.ClientIP()); ip != nil {
		return ip
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		host = c.Request.RemoteAddr
	}
	return net.ParseIP(host)
}
