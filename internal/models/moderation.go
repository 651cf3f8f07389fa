package models

type ModerationBody struct {
	Text string `json:"text" validate:"required,max=5000"`
}

// ModerationVerdict is the decision returned by the moderation helper.
type ModerationVerdict struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}
