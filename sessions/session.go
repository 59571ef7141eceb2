package sessions

// Session is the credential bundle established at login and read before every authenticated call.
// A Session is only ever built complete; a stored record missing any identity field is treated as absent.
type Session struct {
	Email   string `json:"email"`   // Owner's login email, used to look up the owner's stores
	OwnerID string `json:"ownerID"` // Owner document id, compared against a store's owner before writes
	Secret  string `json:"secret"`  // Bearer credential issued by the login mutation
	TTL     TTL    `json:"ttl"`     // Expiry hint returned with the secret, advisory only
}

// New creates a fully formed session
func New(email, ownerID, secret string, ttl TTL) Session {
	return Session{
		Email:   email,
		OwnerID: ownerID,
		Secret:  secret,
		TTL:     ttl,
	}
}

// Complete reports whether every identity field is set
func (s Session) Complete() bool {
	return s.Email != "" && s.OwnerID != "" && s.Secret != ""
}
