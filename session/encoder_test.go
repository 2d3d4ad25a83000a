package session

import (
	"reflect"
	"strings"
	"testing"
)

func TestEncodeDecodeWithUser(t *testing.T) {
	in := &Session{
		Token:     "tok-1",
		ExpiresAt: 1700003600,
		User: &UserInfo{
			ID:          42,
			Username:    "admin",
			RealName:    "Site Admin",
			Email:       "admin@example.com",
			AvatarURL:   "/uploads/a.png",
			IsSystem:    true,
			Permissions: []string{"*", "system:user:list"},
		},
	}

	data, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if out.SchemaVersion != CurrentSchemaVersion {
		t.Fatalf("expected schema %d, got %d", CurrentSchemaVersion, out.SchemaVersion)
	}
	if out.Token != in.Token || out.ExpiresAt != in.ExpiresAt {
		t.Fatalf("token/expiry mismatch: %+v", out)
	}
	if !reflect.DeepEqual(out.User, in.User) {
		t.Fatalf("user mismatch: got %+v want %+v", out.User, in.User)
	}
}

func TestEncodeEmptySession(t *testing.T) {
	data, err := Encode(&Session{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Authenticated() || out.User != nil {
		t.Fatalf("expected empty session, got %+v", out)
	}
}

func TestEncodeRejectsUserWithoutToken(t *testing.T) {
	if _, err := Encode(&Session{User: &UserInfo{ID: 1}}); err == nil {
		t.Fatal("expected user-without-token to be rejected")
	}
}

func TestEncodeRejectsOversizedPermission(t *testing.T) {
	s := &Session{Token: "t", User: &UserInfo{Permissions: []string{strings.Repeat("x", 300)}}}
	if _, err := Encode(s); err == nil {
		t.Fatal("expected oversized permission to be rejected")
	}
}

func TestDecodeRejectsUnsupportedSchemaVersion(t *testing.T) {
	_, err := Decode([]byte{99})
	if err == nil || !strings.Contains(err.Error(), "unsupported session schema version") {
		t.Fatalf("expected unsupported schema version error, got %v", err)
	}
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	data, err := Encode(&Session{Token: "tok", User: &UserInfo{ID: 1, Username: "u", Permissions: []string{"a:b"}}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for i := 1; i < len(data); i++ {
		if _, err := Decode(data[:i]); err == nil {
			t.Fatalf("expected truncated input of length %d to fail", i)
		}
	}
}
