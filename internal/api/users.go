package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cinebook/cinebook/internal/model"
)

// ProfilePic is an avatar upload attached to register/update calls.
type ProfilePic struct {
	Name string
	Data []byte
}

// RegisterRequest carries the multipart signup form. PhoneNumber and
// Pic are optional and omitted from the form when empty.
type RegisterRequest struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Pic         *ProfilePic
}

// UpdateProfileRequest carries the multipart profile-update form.
type UpdateProfileRequest struct {
	Name        string
	PhoneNumber string
	Pic         *ProfilePic
}

// Register creates an account. The backend also sets the refresh
// cookie, so a successful register leaves the client able to refresh.
func (c *Client) Register(ctx context.Context, reg RegisterRequest) (model.AuthResponse, error) {
	form := url.Values{}
	form.Set("name", reg.Name)
	form.Set("email", reg.Email)
	form.Set("password", reg.Password)
	form.Set("phone_number", reg.PhoneNumber)
	var files []file
	if reg.Pic != nil {
		files = append(files, file{field: "profile_pic", name: reg.Pic.Name, data: reg.Pic.Data})
	}
	var out model.AuthResponse
	err := c.do(ctx, request{op: OpRegister, method: http.MethodPost, path: routeRegister, form: form, files: files}, &out)
	if err != nil {
		return model.AuthResponse{}, err
	}
	c.session.Login(out.Access)
	return out, nil
}

// Login authenticates with email/password and stores the returned
// access token in the session. The refresh credential arrives as an
// http-only cookie handled by the jar.
func (c *Client) Login(ctx context.Context, email, password string) (model.AuthResponse, error) {
	var out model.AuthResponse
	err := c.do(ctx, request{
		op:     OpLogin,
		method: http.MethodPost,
		path:   routeLogin,
		json:   model.LoginRequest{Email: email, Password: password},
	}, &out)
	if err != nil {
		return model.AuthResponse{}, err
	}
	c.session.Login(out.Access)
	return out, nil
}

// Logout revokes the refresh credential server-side and clears the
// local session regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, request{op: OpLogout, method: http.MethodPost, path: routeLogout}, nil)
	c.session.Logout()
	return err
}

// RefreshToken forces a token refresh outside the interceptor, for
// callers that want to restore a session from the cookie alone.
func (c *Client) RefreshToken(ctx context.Context) (model.RefreshResponse, error) {
	var out model.RefreshResponse
	err := c.do(ctx, request{op: OpRefreshToken, method: http.MethodPost, path: routeRefresh}, &out)
	if err != nil {
		return model.RefreshResponse{}, err
	}
	c.session.Login(out.Access)
	return out, nil
}

// UserDetails fetches the authenticated user's profile.
func (c *Client) UserDetails(ctx context.Context) (model.User, error) {
	var out model.User
	err := c.do(ctx, request{op: OpUserDetails, method: http.MethodGet, path: routeProfile}, &out)
	return out, err
}

// UpdateUserDetails patches the profile with a multipart form.
func (c *Client) UpdateUserDetails(ctx context.Context, upd UpdateProfileRequest) (model.User, error) {
	form := url.Values{}
	form.Set("name", upd.Name)
	form.Set("phone_number", upd.PhoneNumber)
	var files []file
	if upd.Pic != nil {
		files = append(files, file{field: "profile_pic", name: upd.Pic.Name, data: upd.Pic.Data})
	}
	var out model.User
	err := c.do(ctx, request{op: OpUpdateProfile, method: http.MethodPatch, path: routeProfile, form: form, files: files}, &out)
	return out, err
}
