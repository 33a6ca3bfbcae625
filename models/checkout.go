package models

type CartItem struct {
	Slug     string `json:"slug"`
	Size     string `json:"size,omitempty"`
	Quantity int    `json:"quantity"`
}

type CheckoutReq struct {
	Items []CartItem `json:"items"`
}

type CheckoutResp struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId,omitempty"`
}
