package entity

// AuthProvider identifies where an account's credentials live.
type AuthProvider string

const (
	AuthProviderManual    AuthProvider = "manual"
	AuthProviderGoogle    AuthProvider = "google"
	AuthProviderMicrosoft AuthProvider = "microsoft"
)

// String returns the string representation of the AuthProvider.
func (p AuthProvider) String() string {
	return string(p)
}

// IsValid checks if the AuthProvider is a known value.
func (p AuthProvider) IsValid() bool {
	switch p {
	case AuthProviderManual, AuthProviderGoogle, AuthProviderMicrosoft:
		return true
	default:
		return false
	}
}

// IsExternal reports whether the provider is an OAuth identity provider.
func (p AuthProvider) IsExternal() bool {
	return p == AuthProviderGoogle || p == AuthProviderMicrosoft
}

// Identity is the provider-independent view of an authenticated user.
// Every credential source normalizes into this shape before a session is issued.
type Identity struct {
	SubjectID string
	Email     string
	FirstName string
	LastName  string
	Role      Role
	Provider  AuthProvider
}

// OAuthProfile is what an external provider asserted about the person who signed in.
type OAuthProfile struct {
	Provider        AuthProvider
	Subject         string // Provider-scoped stable user id (sub / oid).
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
}

// UserID is the local primary key for an OAuth account, e.g. google_1234.
func (p OAuthProfile) UserID() string {
	return p.Provider.String() + "_" + p.Subject
}
