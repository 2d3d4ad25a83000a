package goConsole

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"github.com/MrEthical07/goConsole/dispatch"
)

const (
	pathLogin  = "/api/auth/login"
	pathLogout = "/api/auth/logout"
	pathMe     = "/api/auth/me"
	pathAvatar = "/api/auth/avatar"

	// MaxAvatarSize is the largest accepted avatar upload.
	MaxAvatarSize = 1 << 20
)

// AuthService covers login, logout and the signed-in user's profile.
type AuthService struct {
	c *Client
}

// Login authenticates and stores the returned session. The returned user is
// a copy.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*UserInfo, error) {
	resp, err := call[LoginResponse](ctx, s.c, dispatch.Request{
		Method: http.MethodPost,
		URL:    pathLogin,
		Params: req,
	})
	if err != nil {
		return nil, err
	}

	user := resp.UserInfo
	if err := s.c.store.SetOnLogin(ctx, resp.Token, &user); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	s.c.logger.Info("logged in", "user_id", user.ID, "username", user.Username)
	return user.Clone(), nil
}

// Logout ends the backend session and clears the local one. The local
// session is cleared even when the backend call fails.
func (s *AuthService) Logout(ctx context.Context) error {
	err := exec(ctx, s.c, dispatch.Request{
		URL:            pathLogout,
		SuccessMessage: "Logout successful",
	})
	if errors.Is(err, ErrClientClosed) {
		return err
	}

	// A 401 already tore the session down.
	if s.c.store.Authenticated() {
		if clearErr := s.c.store.Clear(context.WithoutCancel(ctx)); clearErr != nil {
			err = errors.Join(err, clearErr)
		}
	}
	return err
}

// Me fetches the current user and replaces the stored record with it.
func (s *AuthService) Me(ctx context.Context) (*UserInfo, error) {
	user, err := call[UserInfo](ctx, s.c, dispatch.Request{URL: pathMe})
	if err != nil {
		return nil, err
	}
	if err := s.c.store.UpdateUserInfo(ctx, &user); err != nil {
		return nil, fmt.Errorf("store user: %w", err)
	}
	return user.Clone(), nil
}

// UpdateAvatar uploads a JPEG or PNG image of at most [MaxAvatarSize] bytes
// and merges the returned URL into the stored user.
func (s *AuthService) UpdateAvatar(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAvatarSize+1))
	if err != nil {
		return "", fmt.Errorf("read avatar: %w", err)
	}
	if len(data) == 0 {
		return "", ErrAvatarEmpty
	}
	if len(data) > MaxAvatarSize {
		return "", ErrAvatarTooLarge
	}
	contentType := http.DetectContentType(data)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return "", ErrAvatarType
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="avatar"; filename=%q`, filepath.Base(filename)))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}

	url, err := call[string](ctx, s.c, dispatch.Request{
		Method:  http.MethodPost,
		URL:     pathAvatar,
		Body:    &body,
		Headers: map[string]string{"Content-Type": mw.FormDataContentType()},
	})
	if err != nil {
		return "", err
	}
	if err := s.c.store.UpdateAvatar(ctx, url); err != nil {
		return url, fmt.Errorf("store avatar: %w", err)
	}
	return url, nil
}
