package api_test

import (
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-cafe-storefront/api"
	"github.com/jrsteele09/go-cafe-storefront/apifake"
	"github.com/jrsteele09/go-cafe-storefront/session"
	"golang.org/x/crypto/bcrypt"
)

// fixture starts an apifake backend and a client with an empty session.
func fixture(t *testing.T, fakeOpts []apifake.Option, opts ...api.Option) (*apifake.Backend, *api.Client) {
	t.Helper()
	fakeOpts = append([]apifake.Option{apifake.WithBcryptCost(bcrypt.MinCost)}, fakeOpts...)
	backend := apifake.New(fakeOpts...)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return backend, api.New(api.Config{BaseURL: srv.URL}, session.New(nil), opts...)
}

// signIn puts a valid token for username into the client's session.
func signIn(t *testing.T, backend *apifake.Backend, client *api.Client, username string) {
	t.Helper()
	token, err := backend.IssueToken(username)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if err := client.Session().SetToken(token); err != nil {
		t.Fatalf("set token: %v", err)
	}
}
