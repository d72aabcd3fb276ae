package model

// Subscription is read-only reference data describing a subscription tier.
type Subscription struct {
	SubscriptionCode string `json:"subscription_code"`
	SubscriptionName string `json:"subscription_name"`
}
