package backend

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinebook/cinebook/internal/model"
)

const refreshCookie = "refresh"

func (s *Server) setRefreshCookie(c echo.Context, raw string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookie,
		Value:    raw,
		Path:     "/users/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// issueSession mints the access token and the refresh cookie for a
// user. The raw refresh credential only ever exists in the cookie; the
// store keeps its hash.
func (s *Server) issueSession(c echo.Context, u user) (string, error) {
	access, err := newAccessToken(s.cfg.JWTSecret, u.ID, s.cfg.AccessTTL)
	if err != nil {
		return "", err
	}
	raw, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	expires := time.Now().UTC().Add(s.cfg.RefreshTTL)
	s.store.storeRefresh(hashRefresh(raw), u.ID, expires)
	s.setRefreshCookie(c, raw, expires)
	return access, nil
}

// Register handles the multipart signup form and logs the user in
// immediately: access token in the body, refresh credential as an
// http-only cookie.
func (s *Server) Register(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")
	phone := strings.TrimSpace(c.FormValue("phone_number"))
	if name == "" || email == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
	}

	hash, err := hashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	u, err := s.store.createUser(name, email, phone, hash)
	if err != nil {
		if err == errEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	// The demo backend has nowhere to serve uploads from; it records
	// the filename so the profile round-trips.
	if f, err := c.FormFile("profile_pic"); err == nil && f != nil {
		u, _ = s.store.updateUser(u.ID, "", "", f.Filename)
	}

	access, err := s.issueSession(c, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusCreated, model.AuthResponse{User: u.wire(), Access: access})
}

// Login verifies credentials and starts a session.
func (s *Server) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	u, ok := s.store.userByEmail(req.Email)
	if !ok || !verifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	access, err := s.issueSession(c, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, model.AuthResponse{User: u.wire(), Access: access})
}

// Refresh exchanges the cookie credential for a fresh access token.
// No bearer header is involved; the cookie is the whole proof.
func (s *Server) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing refresh credential"})
	}
	uid, err := s.store.validateRefresh(hashRefresh(cookie.Value))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	u, ok := s.store.userByID(uid)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	access, err := newAccessToken(s.cfg.JWTSecret, u.ID, s.cfg.AccessTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, model.RefreshResponse{Access: access})
}

// Logout revokes the refresh credential and clears the cookie.
func (s *Server) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(refreshCookie); err == nil && cookie.Value != "" {
		s.store.revokeRefresh(hashRefresh(cookie.Value))
	}
	s.setRefreshCookie(c, "", time.Unix(0, 0))
	return c.NoContent(http.StatusNoContent)
}

// Profile returns the authenticated user.
func (s *Server) Profile(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, ok := s.store.userByID(uid)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, u.wire())
}

// UpdateProfile patches name/phone/picture from a multipart form.
func (s *Server) UpdateProfile(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	pic := ""
	if f, err := c.FormFile("profile_pic"); err == nil && f != nil {
		pic = f.Filename
	}
	u, err := s.store.updateUser(uid,
		strings.TrimSpace(c.FormValue("name")),
		strings.TrimSpace(c.FormValue("phone_number")),
		pic,
	)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, u.wire())
}
