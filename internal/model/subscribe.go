package model

// SubscribeResponse is returned once the provider accepted the address.
type SubscribeResponse struct {
	OK bool `json:"ok"`
}
