package appsession

// PublicSession is the client-facing view of one session record. The JSON
// field names are a contract with mobile clients and must remain stable
// once introduced.
//
// PublicSession instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PublicSession struct {
	BPDToken      string `json:"bpdToken"`
	MyPortalToken string `json:"myPortalToken"`
	SpidLevel     int    `json:"spidLevel"`
	WalletToken   string `json:"walletToken,omitempty"`
}

// SessionsList is the non-empty ordered inventory of one identity's active
// sessions, in index enumeration order.
//
// SessionsList instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionsList struct {
	Sessions []PublicSession `json:"sessions"`
}
