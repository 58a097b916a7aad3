package session

// Generation identifies which schema step a stored [User] record satisfies.
// Generations are additive: a record never moves to a lower one.
type Generation uint8

const (
	// GenerationV1 carries only the base identity fields.
	GenerationV1 Generation = iota + 1
	// GenerationV2 adds the myportal token.
	GenerationV2
	// GenerationV3 adds the bpd token on top of generation 2.
	GenerationV3

	// GenerationCurrent is the generation every record is upgraded toward.
	GenerationCurrent = GenerationV3
)

// User is the mutable per-session record persisted in Redis. Optional token
// fields use omitempty so that generation detection stays structural: the
// stored document carries no version tag.
type User struct {
	SessionID  string `json:"session_id"`
	FiscalCode string `json:"fiscal_code"`
	SpidLevel  int    `json:"spid_level"`
	CreatedAt  int64  `json:"created_at"`

	WalletToken string `json:"wallet_token,omitempty"`

	// Generation 2.
	MyPortalToken string `json:"myportal_token,omitempty"`

	// Generation 3.
	BPDToken string `json:"bpd_token,omitempty"`
}

// HasMyPortalToken reports whether the generation-2 auxiliary token is present.
func (u *User) HasMyPortalToken() bool {
	return u != nil && u.MyPortalToken != ""
}

// HasBPDToken reports whether the generation-3 auxiliary token is present.
func (u *User) HasBPDToken() bool {
	return u != nil && u.BPDToken != ""
}

// Generation computes the record's schema generation from field presence.
// A record holding a bpd token without a myportal token is still below
// generation 3: generation 3 requires the full generation-2 capability set.
func (u *User) Generation() Generation {
	switch {
	case u.HasMyPortalToken() && u.HasBPDToken():
		return GenerationV3
	case u.HasMyPortalToken():
		return GenerationV2
	default:
		return GenerationV1
	}
}
