package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/godsaeng/godsaeng-backend/internal/config"
	"github.com/godsaeng/godsaeng-backend/internal/middleware"
	"github.com/godsaeng/godsaeng-backend/internal/model"
	"github.com/godsaeng/godsaeng-backend/internal/queue"
	"github.com/godsaeng/godsaeng-backend/internal/repository"
	"github.com/godsaeng/godsaeng-backend/internal/session"
	"github.com/godsaeng/godsaeng-backend/internal/utils"
)

// testCost keeps bcrypt cheap in tests.
const testCost = 4

// ----- in-memory user store -----

type memUserStore struct {
	mu    sync.Mutex
	seq   uint64
	users map[uint64]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[uint64]*model.User{}}
}

var _ repository.UserStore = (*memUserStore)(nil)

func (s *memUserStore) Create(_ context.Context, name, password string, cost int) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Stands in for the unique key on users.name.
	for _, u := range s.users {
		if u.Name == name {
			return 0, repository.ErrNameExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	s.seq++
	now := time.Now().UTC()
	s.users[s.seq] = &model.User{ID: s.seq, Name: name, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}
	return s.seq, nil
}

func (s *memUserStore) FindByID(_ context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) FindByName(_ context.Context, name string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Name == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) UpdateCredentials(_ context.Context, id uint64, name, password string, cost int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	for _, other := range s.users {
		if other.ID != id && other.Name == name {
			return nil, repository.ErrNameExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	u.Name = name
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (s *memUserStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// ----- in-memory event store -----

type memEventStore struct {
	mu     sync.Mutex
	seq    uint64
	events map[uint64]*model.Event
}

func newMemEventStore() *memEventStore {
	return &memEventStore{events: map[uint64]*model.Event{}}
}

var _ repository.EventStore = (*memEventStore)(nil)

func (s *memEventStore) Create(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	e.ID = s.seq
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	cp := *e
	s.events[e.ID] = &cp
	return nil
}

func (s *memEventStore) GetByID(_ context.Context, id uint64) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, repository.ErrEventNotFound
}

func (s *memEventStore) Update(_ context.Context, id uint64, note string, eventDate time.Time) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	e.Note = note
	e.EventDate = eventDate
	e.UpdatedAt = time.Now().UTC()
	cp := *e
	return &cp, nil
}

func (s *memEventStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *memEventStore) DeleteByOwner(_ context.Context, ownerID uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, e := range s.events {
		if e.OwnerID == ownerID {
			delete(s.events, id)
			n++
		}
	}
	return n, nil
}

func (s *memEventStore) ListByOwner(_ context.Context, ownerID uint64) ([]*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Event
	for _, e := range s.events {
		if e.OwnerID == ownerID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ----- in-memory session store -----

type memSessionStore struct {
	mu   sync.Mutex
	seq  int
	bags map[string]session.Attributes
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{bags: map[string]session.Attributes{}}
}

var _ session.Store = (*memSessionStore)(nil)

func (s *memSessionStore) New(_ context.Context, attrs session.Attributes) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("sess-%d", s.seq)
	s.bags[id] = cloneAttrs(attrs)
	return id, nil
}

func (s *memSessionStore) Get(_ context.Context, id string) (session.Attributes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bag, ok := s.bags[id]; ok {
		return cloneAttrs(bag), nil
	}
	return nil, session.ErrNotFound
}

func (s *memSessionStore) Set(_ context.Context, id string, attrs session.Attributes) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bags[id] = cloneAttrs(attrs)
	return nil
}

func (s *memSessionStore) Rotate(ctx context.Context, id string) (string, error) {
	attrs, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	newID, err := s.New(ctx, attrs)
	if err != nil {
		return "", err
	}
	return newID, s.Delete(ctx, id)
}

func (s *memSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bags, id)
	return nil
}

func cloneAttrs(attrs session.Attributes) session.Attributes {
	cp := session.Attributes{}
	for k, v := range attrs {
		cp[k] = v
	}
	return cp
}

// ----- test environment -----

type testEnv struct {
	e        *echo.Echo
	users    *memUserStore
	events   *memEventStore
	sessions *memSessionStore
	auth     *AuthHandler
	eventsH  *EventHandler
}

// newTestEnv wires real handlers over in-memory stores with the same
// grouping the router uses.
func newTestEnv(t *testing.T, deletePolicy string) *testEnv {
	t.Helper()
	cfg := config.Config{
		Env:           "test",
		SessionTTLMin: 30,
		BcryptCost:    testCost,
		DeletePolicy:  deletePolicy,
	}
	env := &testEnv{
		e:        echo.New(),
		users:    newMemUserStore(),
		events:   newMemEventStore(),
		sessions: newMemSessionStore(),
	}
	env.auth = NewAuthHandler(cfg, env.users, env.events, env.sessions)
	env.eventsH = NewEventHandler(env.events)
	// Queue publishing is out of band; tests observing it replace this.
	env.eventsH.publish = func(context.Context, queue.ScheduleChanged) error { return nil }

	env.e.POST("/user", env.auth.Signup)
	env.e.POST("/login", env.auth.Login)
	env.e.POST("/logout", env.auth.Logout)

	auth := env.e.Group("", middleware.SessionAuth(env.sessions))
	auth.GET("/me", env.auth.Me)
	auth.PATCH("/user", env.auth.UpdateAccount)
	auth.DELETE("/user", env.auth.DeleteAccount)
	auth.GET("/events", env.eventsH.ListEvents)
	auth.POST("/event", env.eventsH.CreateEvent)
	auth.PATCH("/event", env.eventsH.PatchEvent)
	auth.DELETE("/event", env.eventsH.DeleteEvent)
	return env
}

// do performs a JSON request against the test server.
func (env *testEnv) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// sessionCookie pulls the session cookie out of a response, failing the
// test when it is absent.
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

// seedSession creates a session with an arbitrary bag and returns its
// cookie, bypassing login. Used to probe the gate with odd identities.
func (env *testEnv) seedSession(t *testing.T, attrs session.Attributes) *http.Cookie {
	t.Helper()
	id, err := env.sessions.New(context.Background(), attrs)
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return &http.Cookie{Name: middleware.CookieName, Value: id}
}
