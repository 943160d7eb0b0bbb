package middleware

import (
	"advanced-form/internal/form"

	"github.com/gin-gonic/gin"
)

// ActionAddTech is the posted action that only appends a techs row.
const ActionAddTech = "add"

// AvatarUploadOnly applies limit to requests that can upload an avatar:
// submissions of the avatar form version. Row additions are not counted.
// A nil limit passes everything through.
func AvatarUploadOnly(limit gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit == nil || c.Param("version") != form.VersionAvatar.String() || isAddTech(c) {
			c.Next()
			return
		}
		limit(c)
	}
}

func isAddTech(c *gin.Context) bool {
	if c.ContentType() == gin.MIMEJSON {
		return false
	}
	return c.PostForm("action") == ActionAddTech
}
