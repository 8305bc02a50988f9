package authn

// User is the identity delivered by the auth backend. Only the email is
// relied on locally; the rest is carried through for display.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}
