package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// CurrentSchemaVersion is the binary format written by [Encode].
const CurrentSchemaVersion uint8 = 1

const (
	flagHasUser  = 1 << 0
	flagIsSystem = 1 << 1
)

// Encode serializes s.
//
// Layout (big endian):
//
//	version u8 | token u16-len | flags u8 | expiresAt i64
//	[user: id i64 | username u8-len | realName u8-len | email u8-len |
//	 avatarUrl u16-len | permCount u16 | perm u8-len ...]
func Encode(s *Session) ([]byte, error) {
	if s == nil {
		return nil, errors.New("nil session")
	}
	if s.Token == "" && s.User != nil {
		return nil, errors.New("user without token")
	}

	var buf bytes.Buffer
	buf.WriteByte(CurrentSchemaVersion)

	if err := writeString16(&buf, s.Token, "token"); err != nil {
		return nil, err
	}

	var flags byte
	if s.User != nil {
		flags |= flagHasUser
		if s.User.IsSystem {
			flags |= flagIsSystem
		}
	}
	buf.WriteByte(flags)

	if err := binary.Write(&buf, binary.BigEndian, s.ExpiresAt); err != nil {
		return nil, err
	}

	if s.User == nil {
		return buf.Bytes(), nil
	}

	u := s.User
	if err := binary.Write(&buf, binary.BigEndian, u.ID); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		name  string
		value string
	}{
		{"username", u.Username},
		{"realName", u.RealName},
		{"email", u.Email},
	} {
		if err := writeString8(&buf, f.value, f.name); err != nil {
			return nil, err
		}
	}
	if err := writeString16(&buf, u.AvatarURL, "avatarUrl"); err != nil {
		return nil, err
	}

	if len(u.Permissions) > math.MaxUint16 {
		return nil, errors.New("too many permissions")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(u.Permissions))); err != nil {
		return nil, err
	}
	for _, p := range u.Permissions {
		if err := writeString8(&buf, p, "permission"); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// Decode parses data produced by [Encode].
func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != CurrentSchemaVersion {
		return nil, fmt.Errorf("unsupported session schema version %d", version)
	}

	s := &Session{SchemaVersion: version}

	if s.Token, err = readString16(reader); err != nil {
		return nil, err
	}

	flags, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	if err := binary.Read(reader, binary.BigEndian, &s.ExpiresAt); err != nil {
		return nil, err
	}

	if flags&flagHasUser == 0 {
		return s, nil
	}
	if s.Token == "" {
		return nil, errors.New("user without token")
	}

	u := &UserInfo{IsSystem: flags&flagIsSystem != 0}
	if err := binary.Read(reader, binary.BigEndian, &u.ID); err != nil {
		return nil, err
	}
	if u.Username, err = readString8(reader); err != nil {
		return nil, err
	}
	if u.RealName, err = readString8(reader); err != nil {
		return nil, err
	}
	if u.Email, err = readString8(reader); err != nil {
		return nil, err
	}
	if u.AvatarURL, err = readString16(reader); err != nil {
		return nil, err
	}

	var count uint16
	if err := binary.Read(reader, binary.BigEndian, &count); err != nil {
		return nil, err
	}
	u.Permissions = make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		p, err := readString8(reader)
		if err != nil {
			return nil, err
		}
		u.Permissions = append(u.Permissions, p)
	}

	s.User = u
	return s, nil
}

func writeString8(buf *bytes.Buffer, s, field string) error {
	if len(s) > math.MaxUint8 {
		return fmt.Errorf("%s too long", field)
	}
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
	return nil
}

func writeString16(buf *bytes.Buffer, s, field string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("%s too long", field)
	}
	if err := binary.Write(buf, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	buf.WriteString(s)
	return nil
}

func readString8(r *bytes.Reader) (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func readString16(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
