package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity header names. Identity is established by an upstream gateway
// and trusted here as-is.
const (
	HeaderCustomerID = "X-Customer-Id"
	HeaderSessionID  = "X-Session-Id"
	HeaderStaffID    = "X-Staff-Id"

	CustomerIDKey = "customerID"
	SessionIDKey  = "sessionID"
	StaffIDKey    = "staffID"
)

// CustomerIdentity requires X-Customer-Id and X-Session-Id on every
// request in the group and stows them in the gin context.
func CustomerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.GetHeader(HeaderCustomerID)
		sessionID := c.GetHeader(HeaderSessionID)
		if customerID == "" || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "missing identity headers",
			})
			return
		}
		c.Set(CustomerIDKey, customerID)
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// StaffIdentity requires X-Staff-Id on staff routes.
func StaffIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		staffID := c.GetHeader(HeaderStaffID)
		if staffID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "missing staff identity header",
			})
			return
		}
		c.Set(StaffIDKey, staffID)
		c.Next()
	}
}
