package httpdto

// SetViewerRequest is used for POST /viewers
type SetViewerRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Active  *bool  `json:"active" binding:"required"`
}

// ViewerStateResponse reports whether the caller is marked active on an
// order.
type ViewerStateResponse struct {
	OrderID string `json:"order_id"`
	Active  bool   `json:"active"`
}
