package auth

import "github.com/gin-gonic/gin"

const identityKey = "identity"

// SetIdentity stores the authenticated caller on the Gin context.
func SetIdentity(c *gin.Context, id *Identity) {
	c.Set(identityKey, id)
}

// GetIdentity returns the authenticated caller, or nil for anonymous requests.
func GetIdentity(c *gin.Context) *Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(*Identity); ok {
			return id
		}
	}
	return nil
}

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	if id := GetIdentity(c); id != nil {
		return id.ID
	}
	return ""
}
