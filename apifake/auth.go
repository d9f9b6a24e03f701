package apifake

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "kopikata-apifake"

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AddUser registers an admin account directly, bypassing /register.
func (b *Backend) AddUser(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.bcryptCost)
	if err != nil {
		return errors.Wrapf(err, "hashing password for %s", username)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[username] = string(hash)
	return nil
}

// IssueToken signs an access token for username without checking a password.
func (b *Backend) IssueToken(username string) (string, error) {
	now := b.now()
	claims := jwt.MapClaims{
		"iss": issuer,
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(b.tokenTTL).Unix(),
		"jti": uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		return "", errors.Wrapf(err, "failed to sign token")
	}
	return signed, nil
}

// verify returns the subject of a valid bearer token.
func (b *Backend) verify(r *http.Request) (string, bool) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", false
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return b.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(b.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", false
	}
	sub, _ := token.Claims.GetSubject()
	return sub, sub != ""
}

// requireToken rejects requests without a valid bearer token with 401.
func (b *Backend) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := b.verify(r)
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			_ = r.ParseMultipartForm(maxUploadBytes)
		}
		b.record(r, ok)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	}
}

func (b *Backend) loginHandler(w http.ResponseWriter, r *http.Request) {
	b.record(r, false)
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b.mu.RLock()
	hash, ok := b.users[creds.Username]
	b.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := b.IssueToken(creds.Username)
	if err != nil {
		log.Err(err).Msg("apifake: issuing token")
		writeMessage(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	b.writeData(w, http.StatusOK, map[string]any{
		"message":      "Login successful",
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int64(b.tokenTTL.Seconds()),
	})
}

func (b *Backend) registerHandler(w http.ResponseWriter, r *http.Request) {
	b.record(r, false)
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		writeMessage(w, http.StatusBadRequest, "username and password are required")
		return
	}

	b.mu.RLock()
	_, taken := b.users[creds.Username]
	b.mu.RUnlock()
	if taken {
		writeMessage(w, http.StatusConflict, "Username already exists")
		return
	}
	if err := b.AddUser(creds.Username, creds.Password); err != nil {
		log.Err(err).Msg("apifake: registering user")
		writeMessage(w, http.StatusInternalServerError, "could not register user")
		return
	}
	writeMessage(w, http.StatusCreated, "User registered successfully")
}
