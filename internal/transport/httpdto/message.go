package httpdto

// PostMessageRequest is used for POST /orders/:id/messages
type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
