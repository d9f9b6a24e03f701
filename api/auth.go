package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult describes a successful login.
type LoginResult struct {
	Username string
	Token    string
	Message  string
}

// Login exchanges credentials for a bearer token and stores token and
// username in the session. On any failure the session is left untouched.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, &ValidationError{Reason: "username and password are required"}
	}

	body, err := json.Marshal(credentials{Username: username, Password: password})
	if err != nil {
		return nil, &FetchError{Op: "login", Err: err}
	}
	resp, status, err := c.do(ctx, request{
		op:          "login",
		method:      http.MethodPost,
		path:        "/login",
		body:        jsonBody(body),
		contentType: "application/json",
	})
	if err != nil {
		return nil, err
	}

	payload := unwrapEnvelope(resp)
	token := gjson.GetBytes(payload, "access_token").String()
	if token == "" {
		token = gjson.GetBytes(payload, "token").String()
	}
	if token == "" {
		return nil, &FetchError{
			Op:         "login",
			StatusCode: status,
			Message:    firstNonEmpty(backendMessage(resp), "login failed"),
			Err:        errors.Wrapf(errors.ErrBadEnvelope, "no access token in response"),
		}
	}

	// The token goes last so a failed write never leaves the session signed in.
	previous := c.session.Username()
	if err := c.session.SetUsername(username); err != nil {
		return nil, errors.Wrapf(err, "store username")
	}
	if err := c.session.SetToken(token); err != nil {
		if restoreErr := c.session.SetUsername(previous); restoreErr != nil {
			log.Err(restoreErr).Msg("login: failed to restore username")
		}
		return nil, errors.Wrapf(err, "store token")
	}
	log.Info().Str("username", username).Msg("admin logged in")

	return &LoginResult{Username: username, Token: token, Message: backendMessage(resp)}, nil
}

// Register creates an admin account. The password confirmation is checked
// before anything is sent. It returns the backend's message.
func (c *Client) Register(ctx context.Context, username, password, confirm string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", &ValidationError{Reason: "username and password are required"}
	}
	if password != confirm {
		return "", &ValidationError{Field: "confirm_password", Reason: "passwords do not match"}
	}

	body, err := json.Marshal(credentials{Username: username, Password: password})
	if err != nil {
		return "", &FetchError{Op: "register", Err: err}
	}
	resp, _, err := c.do(ctx, request{
		op:          "register",
		method:      http.MethodPost,
		path:        "/register",
		body:        jsonBody(body),
		contentType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return backendMessage(resp), nil
}

// Logout forgets the token and username.
func (c *Client) Logout() error {
	return c.session.Clear()
}

func (c *Client) IsAuthenticated() bool {
	return c.session.IsAuthenticated()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
