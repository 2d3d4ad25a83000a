package session

// UserInfo is the authenticated user record returned by the login and
// current-user endpoints.
type UserInfo struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	RealName    string   `json:"realName,omitempty"`
	Email       string   `json:"email,omitempty"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
	IsSystem    bool     `json:"isSystem"`
	Permissions []string `json:"permissions"`
}

// Clone returns a deep copy of u. Clone of nil is nil.
func (u *UserInfo) Clone() *UserInfo {
	if u == nil {
		return nil
	}
	out := *u
	if u.Permissions != nil {
		out.Permissions = append([]string(nil), u.Permissions...)
	}
	return &out
}

// Session is a point-in-time copy of the current identity.
//
// Invariant: Token == "" implies User == nil.
type Session struct {
	SchemaVersion uint8
	Token         string
	User          *UserInfo

	// ExpiresAt is a unix timestamp after which a persisted copy is stale.
	// Zero means no expiry.
	ExpiresAt int64
}

// Authenticated reports whether s carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

func (s Session) clone() Session {
	s.User = s.User.Clone()
	return s
}
