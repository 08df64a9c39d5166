package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/alifhakimiazwan/RateMyCitra/internal/middleware"
)

func currentUserID(c *gin.Context) string {
	return middleware.Claims(c).UserID()
}
