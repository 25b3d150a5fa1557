package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/you/adminconsole/domain"
	"github.com/you/adminconsole/internal/mocks"
)

const validOTP = "123456"

// fakeBackend imitates the dashboard REST API under /api/v1
type fakeBackend struct {
	server *httptest.Server

	mu        sync.Mutex
	users     map[string]backendUser
	items     map[string]map[string]map[string]any
	nextID    int
	tokenTTL  time.Duration
	revoked   map[string]bool
	logouts   int
	requestID string
}

type backendUser struct {
	id       string
	name     string
	password string
	role     string
	otp      bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		users: map[string]backendUser{
			"admin@example.com": {id: "u1", name: "Ada Admin", password: "secret", role: "admin"},
			"otp@example.com":   {id: "u2", name: "Otto Admin", password: "secret", role: "admin", otp: true},
			"staff@example.com": {id: "u3", name: "Sam Staff", password: "secret", role: "staff"},
		},
		items:    map[string]map[string]map[string]any{},
		tokenTTL: time.Hour,
		revoked:  map[string]bool{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", b.login)
	mux.HandleFunc("/api/v1/auth/verify-otp", b.verifyOTP)
	mux.HandleFunc("/api/v1/auth/resend-otp", b.resendOTP)
	mux.HandleFunc("/api/v1/auth/logout", b.logout)
	mux.HandleFunc("/api/v1/auth/register", b.register)
	mux.HandleFunc("/api/v1/auth/me", b.me)
	mux.HandleFunc("/api/v1/", b.resource)

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) URL() string { return b.server.URL + "/api/v1" }

func (b *fakeBackend) issue(email string) string {
	u := b.users[email]
	return mocks.IssueToken(domain.Identity{UserID: u.id, Name: u.name, Email: email, Role: u.role}, time.Now().Add(b.tokenTTL))
}

// revoke makes the backend answer 401 for every token issued so far
func (b *fakeBackend) revokeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked["*"] = true
}

func (b *fakeBackend) logoutCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.logouts
}

func (b *fakeBackend) lastRequestID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requestID
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func readBody(r *http.Request) map[string]any {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body
}

func str(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	b.mu.Lock()
	defer b.mu.Unlock()

	u, ok := b.users[str(body, "email")]
	if !ok || u.password != str(body, "password") {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid email or password"})
		return
	}
	if u.otp {
		writeJSON(w, http.StatusOK, map[string]any{"requiresOTP": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requiresOTP": false, "token": b.issue(str(body, "email"))})
}

func (b *fakeBackend) verifyOTP(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	b.mu.Lock()
	defer b.mu.Unlock()

	if str(body, "otp") != validOTP {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid or expired OTP"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": b.issue(str(body, "email"))})
}

func (b *fakeBackend) resendOTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "A new OTP has been sent"})
}

func (b *fakeBackend) logout(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.logouts++
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
}

func (b *fakeBackend) register(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	b.mu.Lock()
	defer b.mu.Unlock()

	email := str(body, "email")
	if _, exists := b.users[email]; exists {
		writeJSON(w, http.StatusConflict, map[string]any{"message": "User already exists"})
		return
	}
	b.nextID++
	b.users[email] = backendUser{
		id:       "n" + strconv.Itoa(b.nextID),
		name:     str(body, "name"),
		password: str(body, "password"),
		role:     str(body, "role"),
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":  map[string]any{"id": b.users[email].id, "email": email, "name": str(body, "name")},
		"token": b.issue(email),
	})
}

// authorize checks the bearer token the way the backend middleware does
func (b *fakeBackend) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requestID = r.Header.Get("X-Request-ID")

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" || b.revoked["*"] {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Not authorized, token failed"})
		return "", false
	}
	return token, true
}

func (b *fakeBackend) me(w http.ResponseWriter, r *http.Request) {
	if _, ok := b.authorize(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": "u1", "email": "admin@example.com", "role": "admin"}})
}

// resource serves /:resource and /:resource/:id from memory
func (b *fakeBackend) resource(w http.ResponseWriter, r *http.Request) {
	if _, ok := b.authorize(w, r); !ok {
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/"), "/"), "/")
	name := parts[0]

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.items[name] == nil {
		b.items[name] = map[string]map[string]any{}
	}
	coll := b.items[name]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			list := []map[string]any{}
			for _, item := range coll {
				if s := r.URL.Query().Get("status"); s != "" && item["status"] != s {
					continue
				}
				list = append(list, item)
			}
			writeJSON(w, http.StatusOK, map[string]any{"data": list, "total": len(list), "page": 1, "totalPages": 1})
		case http.MethodPost:
			body := readBody(r)
			b.nextID++
			body["_id"] = name + "-" + strconv.Itoa(b.nextID)
			coll[body["_id"].(string)] = body
			writeJSON(w, http.StatusCreated, map[string]any{"data": body})
		}
		return
	}

	id := parts[1]
	item, ok := coll[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"data": item})
	case http.MethodPut, http.MethodPatch:
		for k, v := range readBody(r) {
			item[k] = v
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": item})
	case http.MethodDelete:
		delete(coll, id)
		writeJSON(w, http.StatusOK, map[string]any{"message": "Deleted"})
	}
}
