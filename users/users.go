package users

// User is a registered portal user. Registration happens out of band:
// the registered-users list is a flat JSON document maintained by an
// administrator and is never mutated by this service.
type User struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"` // unique within the list
	Email string `json:"email,omitempty"`
}

// SubjectID returns the identifier used as the token subject. Email is
// preferred; phone-only users fall back to their phone number.
func (u User) SubjectID() string {
	if u.Email != "" {
		return u.Email
	}
	return u.Phone
}
