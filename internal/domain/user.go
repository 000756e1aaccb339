package domain

type User struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone,omitempty"`
	College    string   `json:"college,omitempty"`
	Department string   `json:"department,omitempty"`
	Year       string   `json:"year,omitempty"`
	AvatarURL  string   `json:"avatar_url,omitempty"`
	Wishlist   []string `json:"wishlist,omitempty"`
}

// InWishlist reports whether itemID is in the cached profile wishlist.
func (u *User) InWishlist(itemID string) bool {
	for _, id := range u.Wishlist {
		if id == itemID {
			return true
		}
	}
	return false
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up form.
type Registration struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,e164|numeric"`
	College    string `json:"college,omitempty"`
	Department string `json:"department,omitempty"`
	Year       string `json:"year,omitempty"`
}

// ProfileUpdate carries editable profile fields.
type ProfileUpdate struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,e164|numeric"`
	College    string `json:"college,omitempty"`
	Department string `json:"department,omitempty"`
	Year       string `json:"year,omitempty"`
}

// AuthResult is the backend's login response. User may be a partial
// profile; the session fetches the full one afterwards.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}
