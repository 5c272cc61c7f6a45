package response

import (
	"github.com/gin-gonic/gin"
)

// Response standardizes the JSON envelope for informational endpoints
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// SMSResponse is the envelope of the send-sms endpoint. Exactly one of SID,
// Message or Error is populated.
type SMSResponse struct {
	Success bool   `json:"success"`
	SID     string `json:"sid,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	reqID, _ := c.Get("RequestID")
	idStr, _ := reqID.(string) // Safe type assertion

	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: idStr,
	})
}

// Sent reports an accepted message with its provider id
func Sent(c *gin.Context, code int, sid string) {
	c.JSON(code, SMSResponse{Success: true, SID: sid})
}

// Error sends a failure envelope. message and detail are each omitted when empty.
func Error(c *gin.Context, code int, message, detail string) {
	c.JSON(code, SMSResponse{
		Success: false,
		Message: message,
		Error:   detail,
	})
}
