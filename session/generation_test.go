package session

import (
	"bytes"
	"errors"
	"testing"
)

func TestGenerationDetectionIsStructural(t *testing.T) {
	base := User{
		SessionID:  "sid-1",
		FiscalCode: "AAABBB80A01H501X",
		SpidLevel:  2,
	}

	v1 := base
	if g := v1.Generation(); g != GenerationV1 {
		t.Fatalf("bare record: expected V1, got %d", g)
	}

	v2 := base
	v2.MyPortalToken = "mp"
	if g := v2.Generation(); g != GenerationV2 {
		t.Fatalf("myportal only: expected V2, got %d", g)
	}

	v3 := base
	v3.MyPortalToken = "mp"
	v3.BPDToken = "bpd"
	if g := v3.Generation(); g != GenerationV3 {
		t.Fatalf("both tokens: expected V3, got %d", g)
	}

	// A bpd token without the generation-2 token does not reach V3.
	partial := base
	partial.BPDToken = "bpd"
	if g := partial.Generation(); g != GenerationV1 {
		t.Fatalf("bpd only: expected V1, got %d", g)
	}
}

func TestDecodeLegacyDocumentWithoutTokenFields(t *testing.T) {
	// A generation-1 document exactly as an old writer produced it: no
	// token fields at all, no version tag.
	legacy := []byte(`{"session_id":"sid-old","fiscal_code":"AAABBB80A01H501X","spid_level":1,"created_at":1500000000}`)

	u, err := Decode(legacy)
	if err != nil {
		t.Fatalf("decode legacy: %v", err)
	}
	if u.Generation() != GenerationV1 {
		t.Fatalf("expected V1, got %d", u.Generation())
	}
	if u.HasMyPortalToken() || u.HasBPDToken() {
		t.Fatalf("legacy record must not grow tokens on decode: %+v", u)
	}
}

func TestDecodeRejectsStructurallyInvalidRecords(t *testing.T) {
	cases := map[string]string{
		"missing session id":  `{"fiscal_code":"AAABBB80A01H501X","spid_level":2}`,
		"missing fiscal code": `{"session_id":"sid-1","spid_level":2}`,
		"spid level zero":     `{"session_id":"sid-1","fiscal_code":"AAABBB80A01H501X","spid_level":0}`,
		"spid level high":     `{"session_id":"sid-1","fiscal_code":"AAABBB80A01H501X","spid_level":9}`,
	}

	for name, doc := range cases {
		if _, err := Decode([]byte(doc)); !errors.Is(err, ErrRecordCorrupt) {
			t.Errorf("%s: expected corrupt sentinel, got %v", name, err)
		}
	}
}

func TestEncodeOmitsAbsentTokenFields(t *testing.T) {
	u := &User{
		SessionID:  "sid-1",
		FiscalCode: "AAABBB80A01H501X",
		SpidLevel:  2,
	}

	data, err := Encode(u)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, field := range []string{"myportal_token", "bpd_token", "wallet_token"} {
		if bytes.Contains(data, []byte(field)) {
			t.Fatalf("encoded V1 record must not carry %q: %s", field, data)
		}
	}
}
