package handler

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"luxejournal/internal/app"
	"luxejournal/internal/model"
	"luxejournal/internal/transport/http/middleware"
)

type memUserStore struct {
	users  []*model.User
	nextID uint
}

func (s *memUserStore) Create(user *model.User) error {
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return errors.New("duplicated key not allowed")
		}
	}
	s.nextID++
	user.ID = s.nextID
	copied := *user
	s.users = append(s.users, &copied)
	return nil
}

func (s *memUserStore) GetByUsername(username string) (*model.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) GetByEmail(email string) (*model.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) GetByID(id uint) (*model.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) removeAll() {
	s.users = nil
}

type memPostStore struct {
	users  *memUserStore
	posts  map[uint]*model.Post
	nextID uint
}

func newMemPostStore(users *memUserStore) *memPostStore {
	return &memPostStore{users: users, posts: make(map[uint]*model.Post)}
}

func (s *memPostStore) Create(post *model.Post) error {
	s.nextID++
	post.ID = s.nextID
	post.CreatedAt = time.Now()
	copied := *post
	s.posts[post.ID] = &copied
	return nil
}

func (s *memPostStore) GetView(id uint) (*model.PostView, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	username := ""
	if owner, _ := s.users.GetByID(post.UserID); owner != nil {
		username = owner.Username
	}
	return &model.PostView{
		ID:        post.ID,
		UserID:    post.UserID,
		Title:     post.Title,
		Body:      post.Body,
		Username:  username,
		CreatedAt: post.CreatedAt,
	}, nil
}

func (s *memPostStore) ListViews() ([]model.PostView, error) {
	views := make([]model.PostView, 0, len(s.posts))
	for id := range s.posts {
		view, _ := s.GetView(id)
		views = append(views, *view)
	}
	return views, nil
}

func (s *memPostStore) Update(id uint, title, body string) error {
	if post, ok := s.posts[id]; ok {
		post.Title = title
		post.Body = body
	}
	return nil
}

func (s *memPostStore) Delete(id uint) error {
	delete(s.posts, id)
	return nil
}

type testApp struct {
	router *gin.Engine
	users  *memUserStore
	posts  *memPostStore
	auth   *app.AuthService
	postSv *app.PostService
}

// newTestApp assembles the real middleware/handler stack over in-memory
// stores, mirroring the production router.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &memUserStore{}
	posts := newMemPostStore(users)
	authService := app.NewAuthService(users)
	postService := app.NewPostService(posts, nil, nil)

	router := gin.New()
	router.SetFuncMap(template.FuncMap{
		"formatDate": func(t time.Time) string { return t.Format("2006/01/02") },
		"excerpt": func(s string, max int) string {
			runes := []rune(s)
			if len(runes) <= max {
				return s
			}
			return string(runes[:max]) + "…"
		},
	})
	router.LoadHTMLGlob("../../../../web/templates/*.html")
	router.Use(sessions.Sessions("lj_session", cookie.NewStore([]byte("test-secret"))))
	router.Use(middleware.LoadCurrentUser(authService))

	authHandler := NewAuthHandler(authService)
	postHandler := NewPostHandler(postService)
	pageHandler := NewPageHandler()

	router.GET("/", postHandler.Home)
	router.GET("/about", pageHandler.About)
	router.GET("/vlogs", pageHandler.Vlogs)
	router.GET("/register", authHandler.ShowRegister)
	router.POST("/register", authHandler.Register)
	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)
	router.GET("/post/:id", postHandler.Show)
	router.POST("/post/:id", postHandler.Submit)
	router.GET("/post/:id/edit", postHandler.ShowEdit)
	router.POST("/post/:id/edit", postHandler.Update)
	router.POST("/post/:id/delete", postHandler.Delete)

	return &testApp{
		router: router,
		users:  users,
		posts:  posts,
		auth:   authService,
		postSv: postService,
	}
}

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

// newBrowser returns a cookie-carrying client that follows redirects,
// like a real browser session.
func newBrowser(t *testing.T, server *httptest.Server) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &browser{
		t:      t,
		base:   server.URL,
		client: &http.Client{Jar: jar},
	}
}

func (b *browser) get(path string) (int, string) {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	if err != nil {
		b.t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func (b *browser) postForm(path string, form url.Values) (int, string) {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	if err != nil {
		b.t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

// noFollow disables redirect following so Location can be asserted.
func (b *browser) noFollow() *browser {
	b.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return b
}

func mustContain(t *testing.T, body, want string) {
	t.Helper()
	if !strings.Contains(body, want) {
		t.Fatalf("expected body to contain %q", want)
	}
}

func mustNotContain(t *testing.T, body, want string) {
	t.Helper()
	if strings.Contains(body, want) {
		t.Fatalf("expected body not to contain %q", want)
	}
}

func TestProtectedRouteRedirectsAnonymous(t *testing.T) {
	env := newTestApp(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	b := newBrowser(t, server).noFollow()
	resp, err := b.client.Get(server.URL + "/post/new")
	if err != nil {
		t.Fatalf("GET /post/new: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	location := resp.Header.Get("Location")
	if location != "/login?next="+url.QueryEscape("/post/new") {
		t.Fatalf("unexpected redirect target: %q", location)
	}
}

func TestRegisterLoginPostLifecycle(t *testing.T) {
	env := newTestApp(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	b := newBrowser(t, server)

	// Register lands on the login form with a success flash.
	status, body := b.postForm("/register", url.Values{
		"username": {"alice"},
		"email":    {"a@x.com"},
		"password": {"secret1"},
	})
	if status != http.StatusOK {
		t.Fatalf("register: expected 200, got %d", status)
	}
	mustContain(t, body, "Registration complete")

	// Login lands on home with a welcome flash.
	status, body = b.postForm("/login", url.Values{
		"email":    {"a@x.com"},
		"password": {"secret1"},
	})
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", status)
	}
	mustContain(t, body, "Welcome back, alice!")

	// Create a post; the redirect lands on its detail page.
	status, body = b.postForm("/post/new", url.Values{
		"title": {"T"},
		"body":  {"B"},
	})
	if status != http.StatusOK {
		t.Fatalf("create: expected 200, got %d", status)
	}
	mustContain(t, body, "T")
	mustContain(t, body, "B")
	mustContain(t, body, "by alice")

	// Edit it.
	status, body = b.postForm("/post/1/edit", url.Values{
		"title": {"T2"},
		"body":  {"B2"},
	})
	if status != http.StatusOK {
		t.Fatalf("edit: expected 200, got %d", status)
	}
	mustContain(t, body, "T2")
	mustContain(t, body, "B2")

	// Delete it; home no longer lists it.
	status, body = b.postForm("/post/1/delete", nil)
	if status != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", status)
	}
	mustNotContain(t, body, "T2")

	// Logout; the protected route redirects to login again.
	status, _ = b.get("/logout")
	if status != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", status)
	}
	status, body = b.get("/post/new")
	if status != http.StatusOK {
		t.Fatalf("post/new after logout: expected 200 login page, got %d", status)
	}
	mustContain(t, body, "Log in")
	mustContain(t, body, "Please log in")
}

func TestNonOwnerIsForbidden(t *testing.T) {
	env := newTestApp(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	alice, err := env.auth.Register(app.RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if _, err := env.auth.Register(app.RegisterInput{Username: "bob", Email: "b@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("register bob: %v", err)
	}
	post, err := env.postSv.Create(context.Background(), alice.ID, "Roman Holiday", "private musings")
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	b := newBrowser(t, server)
	if status, _ := b.postForm("/login", url.Values{"email": {"b@x.com"}, "password": {"secret1"}}); status != http.StatusOK {
		t.Fatalf("login bob: %d", status)
	}

	// Public detail works for bob.
	status, body := b.get("/post/1")
	if status != http.StatusOK {
		t.Fatalf("detail: expected 200, got %d", status)
	}
	mustContain(t, body, "Roman Holiday")

	// Edit and delete are forbidden.
	if status, _ := b.get("/post/1/edit"); status != http.StatusForbidden {
		t.Fatalf("edit form: expected 403, got %d", status)
	}
	if status, _ := b.postForm("/post/1/edit", url.Values{"title": {"x"}, "body": {"y"}}); status != http.StatusForbidden {
		t.Fatalf("edit: expected 403, got %d", status)
	}
	if status, _ := b.postForm("/post/1/delete", nil); status != http.StatusForbidden {
		t.Fatalf("delete: expected 403, got %d", status)
	}

	// The post survived untouched.
	view, err := env.postSv.Get(post.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if view.Title != "Roman Holiday" {
		t.Fatalf("post mutated by non-owner: %q", view.Title)
	}
}

func TestValidationErrorsReRenderForms(t *testing.T) {
	env := newTestApp(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	b := newBrowser(t, server)

	status, body := b.postForm("/register", url.Values{
		"username": {"  alice "},
		"email":    {" Alice@X.COM "},
		"password": {"12345"},
	})
	if status != http.StatusOK {
		t.Fatalf("register: expected 200, got %d", status)
	}
	mustContain(t, body, "at least 6 characters")
	// The form echoes the trimmed/normalized values the account check
	// ran against, not the raw padded input.
	mustContain(t, body, `value="alice"`)
	mustContain(t, body, `value="a@x.com"`)

	if _, err := env.auth.Register(app.RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if status, _ := b.postForm("/login", url.Values{"email": {"a@x.com"}, "password": {"secret1"}}); status != http.StatusOK {
		t.Fatalf("login: %d", status)
	}

	status, body = b.postForm("/post/new", url.Values{
		"title": {"   "},
		"body":  {"some body"},
	})
	if status != http.StatusOK {
		t.Fatalf("create: expected 200, got %d", status)
	}
	mustContain(t, body, "title is required")
	mustContain(t, body, "some body")
}

func TestUnknownPostIs404(t *testing.T) {
	env := newTestApp(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	b := newBrowser(t, server)
	if status, _ := b.get("/post/999"); status != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", status)
	}
	if status, _ := b.get("/post/not-a-number"); status != http.StatusNotFound {
		t.Fatalf("junk id: expected 404, got %d", status)
	}
}

func TestStaleSessionResolvesAnonymous(t *testing.T) {
	env := newTestApp(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	if _, err := env.auth.Register(app.RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	b := newBrowser(t, server)
	if status, _ := b.postForm("/login", url.Values{"email": {"a@x.com"}, "password": {"secret1"}}); status != http.StatusOK {
		t.Fatalf("login: %d", status)
	}

	// The account disappears while the session cookie lives on.
	env.users.removeAll()

	// Public pages still work, quietly anonymous.
	status, body := b.get("/")
	if status != http.StatusOK {
		t.Fatalf("home with stale session: expected 200, got %d", status)
	}
	mustContain(t, body, "Log in")

	// Protected routes treat the caller as logged out.
	b.noFollow()
	resp, err := b.client.Get(server.URL + "/post/new")
	if err != nil {
		t.Fatalf("GET /post/new: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect for stale session, got %d", resp.StatusCode)
	}
}
