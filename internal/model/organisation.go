package model

// Organisation is a tenant grouping users, locations and workflow
// configurations.  A user belongs to at most one organisation.
type Organisation struct {
	OrganisationID   ID      `json:"organisation_id"`
	OrganisationName string  `json:"organisation_name"`
	Website          *string `json:"website,omitempty"`
	SubscriptionCode *string `json:"subscription_code,omitempty"`
	CreatedAt        string  `json:"created_at,omitempty"`
}

// DefaultSubscriptionCode is applied to new organisations created without
// an explicit subscription.
const DefaultSubscriptionCode = "PROT"

// OrganisationInput is the body for creating or updating an organisation.
// Locations is only sent on create.
type OrganisationInput struct {
	OrganisationName string          `json:"organisation_name"`
	Website          string          `json:"website"`
	SubscriptionCode string          `json:"subscription_code,omitempty"`
	Locations        []LocationInput `json:"locations,omitempty"`
}
