package model

// Location is an address belonging to an organisation.
type Location struct {
	LocationID     ID     `json:"location_id"`
	OrganisationID ID     `json:"organisation_id"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	Country        string `json:"country"`
}

// LocationInput is the body for creating or updating a location.
type LocationInput struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// OrganisationLocation is a location annotated with the name of the
// organisation it was listed under, as shown on the locations page.
type OrganisationLocation struct {
	Location
	OrganisationName string `json:"organisation_name"`
}
