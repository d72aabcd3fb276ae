package model

// User is the backend's user record as cached by the console.  The copy
// held by a session is refreshed wholesale on login and patched locally on
// profile edits.  OrganisationID is nil until the user creates or joins an
// organisation.
type User struct {
	UserID           ID      `json:"user_id"`
	Fullname         string  `json:"fullname"`
	Email            string  `json:"email"`
	OrganisationID   *ID     `json:"organisation_id,omitempty"`
	SubscriptionCode *string `json:"subscription_code,omitempty"`
}

// HasOrganisation reports whether the user already belongs to an organisation.
func (u *User) HasOrganisation() bool {
	return u != nil && u.OrganisationID != nil && *u.OrganisationID != ""
}

// UserPatch is a partial update of a cached user.  Nil fields are left
// untouched by Merge.
type UserPatch struct {
	Fullname         *string `json:"fullname,omitempty"`
	Email            *string `json:"email,omitempty"`
	OrganisationID   *ID     `json:"organisation_id,omitempty"`
	SubscriptionCode *string `json:"subscription_code,omitempty"`
}

// Merge returns a copy of u with every non-nil field of p applied.
func (u User) Merge(p UserPatch) User {
	if p.Fullname != nil {
		u.Fullname = *p.Fullname
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.OrganisationID != nil {
		id := *p.OrganisationID
		u.OrganisationID = &id
	}
	if p.SubscriptionCode != nil {
		code := *p.SubscriptionCode
		u.SubscriptionCode = &code
	}
	return u
}

// UserUpdate is the body accepted by PUT /users/:id.
type UserUpdate struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}
