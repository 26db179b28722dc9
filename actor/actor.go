package actor

// Admin is the session payload for an administrative user. Editors are
// limited administrators that may not manage other admin accounts.
type Admin struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Supers    bool   `json:"supers"`
	Editor    bool   `json:"editor"`
}

// CanAdmin reports whether the admin may perform full administrative
// operations, i.e. is not restricted to editor duties.
func (a *Admin) CanAdmin() bool { return !a.Editor }

// Person is the session payload for an authenticated end user: the minimal
// profile snapshot downstream handlers need without a database round-trip.
type Person struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Customer is the session payload for an API customer (partner) account.
type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Registration is the start-request snapshot stored while a phone number is
// being confirmed. It becomes the payload of a registration session and is
// returned to the caller on a successful confirm.
type Registration struct {
	Phone      string `json:"phone"`
	NewUser    bool   `json:"newUser"`
	RememberMe bool   `json:"rememberMe"`
}
