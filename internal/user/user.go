package user

type User struct {
	ID        int    `json:"userId"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	IsAdmin   bool   `json:"isAdmin,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// FullName joins first and last name for notification emails, falling
// back to "Customer" when both are blank.
func (u User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return "Customer"
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
