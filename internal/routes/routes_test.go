package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/student-teacher-portal/internal/audit"
	"github.com/BruksfildServices01/student-teacher-portal/internal/config"
	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/identity"
	"github.com/BruksfildServices01/student-teacher-portal/internal/journal"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	t      *testing.T
	engine *gin.Engine
	audit  *audit.Dispatcher
	store  docstore.Store
	issuer *identity.JWT
}

func newServer(t *testing.T) *server {
	t.Helper()
	return newServerWith(t, nil)
}

func newServerWith(t *testing.T, tweak func(*config.Config)) *server {
	t.Helper()
	store := docstore.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	issuer := identity.NewJWT("secret")
	logger := audit.New(store)
	dispatcher := audit.NewDispatcher(logger, 100)
	t.Cleanup(dispatcher.Close)

	cfg := &config.Config{TeacherIDPrefix: "T", DisplayTimezone: "UTC", IdentityWait: 2 * time.Second}
	if tweak != nil {
		tweak(cfg)
	}

	r := gin.New()
	RegisterRoutes(r, Infra{
		Store:    store,
		Journal:  journal.New(store),
		Audit:    dispatcher,
		Logger:   logger,
		Accounts: identity.NewLocalAccounts(issuer, identity.NewMemoryCredentials()),
		Verifier: issuer,
	}, cfg)

	return &server{t: t, engine: r, audit: dispatcher, store: store, issuer: issuer}
}

func (s *server) do(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func (s *server) signupAndLogin(kind, id, name, email, password string) string {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/api/auth/"+kind+"/signup", "", gin.H{
		"id": id, "name": name, "email": email, "password": password, "confirm_password": password,
	})
	require.Equal(s.t, http.StatusCreated, code, body)
	assert.Equal(s.t, "Signup successful!", body["message"])

	code, body = s.do(http.MethodPost, "/api/auth/"+kind+"/login", "", gin.H{"id": id, "password": password})
	require.Equal(s.t, http.StatusOK, code, body)
	return body["token"].(string)
}

func data(body map[string]any) []map[string]any {
	rows, _ := body["data"].([]any)
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.(map[string]any))
	}
	return out
}

func TestAppointmentLifecycle(t *testing.T) {
	s := newServer(t)

	teacher := s.signupAndLogin("teachers", "T1", "Ms. Smith", "smith@example.com", "1980-01-01")
	student := s.signupAndLogin("students", "E1", "Alice", "alice@example.com", "2001-02-03")

	code, body := s.do(http.MethodGet, "/api/teachers", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Ms. Smith", data(body)[0]["name"])

	// -------- student books --------
	code, body = s.do(http.MethodPost, "/api/student/appointments", student, gin.H{
		"teacher_id": "T1", "date": "2024-05-01", "time": "10:00",
	})
	require.Equal(t, http.StatusCreated, code, body)

	code, body = s.do(http.MethodGet, "/api/student/appointments", student, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["total"])

	// -------- teacher responds --------
	code, body = s.do(http.MethodGet, "/api/teacher/appointments", teacher, nil)
	require.Equal(t, http.StatusOK, code)
	rows := data(body)
	require.Len(t, rows, 1)
	assert.Equal(t, "Pending", rows[0]["status_label"])
	key := rows[0]["key"].(string)

	code, body = s.do(http.MethodPatch, "/api/teacher/appointments/"+key+"/reschedule", teacher, gin.H{"new_date": "2024-05-02"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "missing_fields", body["error_code"])

	code, body = s.do(http.MethodPatch, "/api/teacher/appointments/"+key+"/accept", teacher, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Accepted", body["status_label"])

	code, body = s.do(http.MethodPatch, "/api/teacher/appointments/missing/accept", teacher, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "appointment_not_found", body["error_code"])

	// -------- student is told --------
	code, body = s.do(http.MethodGet, "/api/student/notifications", student, nil)
	require.Equal(t, http.StatusOK, code)
	notes := data(body)
	require.Len(t, notes, 2)
	assert.Equal(t, "Your appointment request has been sent successfully.", notes[0]["message"])
	assert.Equal(t, "Your appointment with Ms. Smith on 2024-05-01 at 10:00 has been accepted.", notes[1]["message"])

	// -------- audit trail --------
	s.audit.Close()
	code, body = s.do(http.MethodGet, "/api/teacher/audit-logs?action=appointment_accepted", teacher, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["total"])
}

func TestMessaging(t *testing.T) {
	s := newServer(t)
	teacher := s.signupAndLogin("teachers", "T1", "Ms. Smith", "smith@example.com", "1980-01-01")
	student := s.signupAndLogin("students", "E1", "Alice", "alice@example.com", "2001-02-03")

	code, body := s.do(http.MethodPost, "/api/student/messages", student, gin.H{"teacher_id": "T1", "message": " "})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "missing_fields", body["error_code"])

	code, _ = s.do(http.MethodPost, "/api/student/messages", student, gin.H{"teacher_id": "T1", "message": "Can we meet?"})
	require.Equal(t, http.StatusCreated, code)

	code, body = s.do(http.MethodGet, "/api/teacher/messages", teacher, nil)
	require.Equal(t, http.StatusOK, code)
	rows := data(body)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0]["student_name"])
	assert.Equal(t, "Can we meet?", rows[0]["message"])
}

func TestAuthBoundaries(t *testing.T) {
	s := newServer(t)
	student := s.signupAndLogin("students", "E1", "Alice", "alice@example.com", "2001-02-03")

	code, body := s.do(http.MethodGet, "/api/student/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "missing_authorization_header", body["error_code"])

	code, body = s.do(http.MethodGet, "/api/teacher/appointments", student, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "identity_not_resolved", body["error_code"])

	code, body = s.do(http.MethodGet, "/api/me", student, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "students", body["role"])
	assert.Equal(t, "E1", body["id"])

	code, body = s.do(http.MethodPost, "/api/auth/students/login", "", gin.H{"id": "E1", "password": "2001-02-04"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Incorrect password.", body["message"])

	code, body = s.do(http.MethodPost, "/api/auth/students/signup", "", gin.H{
		"id": "E2", "name": "Bob", "email": "alice@example.com", "password": "2001-02-03", "confirm_password": "2001-02-03",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "email_in_use", body["error_code"])
}

// streamRecorder is safe to read while the handler is still writing.
type streamRecorder struct {
	mu     sync.Mutex
	header http.Header
	body   bytes.Buffer
	code   int
	closed chan bool
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{header: http.Header{}, closed: make(chan bool, 1)}
}

func (r *streamRecorder) Header() http.Header { return r.header }

func (r *streamRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.Write(b)
}

func (r *streamRecorder) WriteHeader(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.code = code
}

func (r *streamRecorder) Flush() {}

func (r *streamRecorder) CloseNotify() <-chan bool { return r.closed }

func (r *streamRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.String()
}

func TestNotificationStream(t *testing.T) {
	s := newServer(t)
	s.signupAndLogin("teachers", "T1", "Ms. Smith", "smith@example.com", "1980-01-01")
	student := s.signupAndLogin("students", "E1", "Alice", "alice@example.com", "2001-02-03")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/student/notifications/stream", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+student)
	w := newStreamRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.engine.ServeHTTP(w, req)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(w.String(), "event:notifications")
	}, 2*time.Second, 10*time.Millisecond, "initial snapshot")

	code, _ := s.do(http.MethodPost, "/api/student/appointments", student, gin.H{
		"teacher_id": "T1", "date": "2024-05-01", "time": "10:00",
	})
	require.Equal(t, http.StatusCreated, code)

	require.Eventually(t, func() bool {
		return strings.Contains(w.String(), "sent successfully")
	}, 2*time.Second, 10*time.Millisecond, "notification pushed")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end after disconnect")
	}
}

func TestStreamWaitsForDirectoryDocument(t *testing.T) {
	s := newServer(t)
	token, err := s.issuer.Issue(identity.Principal{Subject: "s1", Email: "late@example.com"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/student/notifications/stream", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+token)
	w := newStreamRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.engine.ServeHTTP(w, req)
	}()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, w.String(), "nothing sent before the student exists")

	require.NoError(t, s.store.Set(context.Background(), paths.Student("E9"), models.Student{
		Email: "late@example.com", EnrollmentNumber: "E9", UserName: "Late",
	}))

	require.Eventually(t, func() bool {
		return strings.Contains(w.String(), "event:notifications")
	}, 2*time.Second, 10*time.Millisecond, "stream opened once the document appeared")

	cancel()
	<-done
}

func TestStreamGivesUpWhenDocumentNeverAppears(t *testing.T) {
	s := newServerWith(t, func(cfg *config.Config) { cfg.IdentityWait = 50 * time.Millisecond })
	token, err := s.issuer.Issue(identity.Principal{Subject: "t1", Email: "ghost@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/teacher/messages/stream", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "identity_not_resolved")
}

func TestAuditLogPaging(t *testing.T) {
	s := newServer(t)
	teacher := s.signupAndLogin("teachers", "T1", "Ms. Smith", "smith@example.com", "1980-01-01")

	for _, page := range []string{"1", "2", "9223372036854775807", "-3", "abc"} {
		t.Run(page, func(t *testing.T) {
			code, body := s.do(http.MethodGet, "/api/teacher/audit-logs?limit=200&page="+page, teacher, nil)
			require.Equal(t, http.StatusOK, code, body)
			assert.NotNil(t, body["logs"])
		})
	}
}
