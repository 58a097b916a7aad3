package session

import (
	"encoding/json"
	"errors"
)

// ErrRecordCorrupt is returned when a stored blob cannot be decoded into a
// structurally valid [User] record.
var ErrRecordCorrupt = errors.New("session record corrupt")

func Encode(u *User) ([]byte, error) {
	if err := validate(u); err != nil {
		return nil, err
	}
	return json.Marshal(u)
}

func Decode(data []byte) (*User, error) {
	u := &User{}
	if err := json.Unmarshal(data, u); err != nil {
		return nil, errors.Join(ErrRecordCorrupt, err)
	}
	if err := validate(u); err != nil {
		return nil, err
	}
	return u, nil
}

// validate checks the generation-1 required fields. Token fields are
// intentionally not checked: their absence is what generation detection
// reads.
func validate(u *User) error {
	if u == nil {
		return errors.Join(ErrRecordCorrupt, errors.New("nil record"))
	}
	if u.SessionID == "" {
		return errors.Join(ErrRecordCorrupt, errors.New("missing session_id"))
	}
	if u.FiscalCode == "" {
		return errors.Join(ErrRecordCorrupt, errors.New("missing fiscal_code"))
	}
	if u.SpidLevel < 1 || u.SpidLevel > 3 {
		return errors.Join(ErrRecordCorrupt, errors.New("spid_level out of range"))
	}
	return nil
}
