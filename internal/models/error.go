package models

// MessageResponse is the JSON body of every locally generated error.
type MessageResponse struct {
	Message string `json:"message"`
}
