package utils

import "github.com/gin-gonic/gin"

// Message writes a 200 response as {message, data?}.
func Message(c *gin.Context, message string, data interface{}) {
	body := gin.H{"message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(200, body)
}

func Error(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{
		"error": msg,
	})
}
