package workflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/employee-portal/internal/api"
	"github.com/iliyamo/employee-portal/internal/flow"
	"github.com/iliyamo/employee-portal/internal/model"
	"github.com/iliyamo/employee-portal/internal/queue"
	"github.com/iliyamo/employee-portal/internal/session"
	"github.com/iliyamo/employee-portal/internal/validation"
)

type MockBackend struct {
	LoginFunc            func(email, password string) (api.LoginResult, error)
	CheckEmailExistsFunc func(email string) bool
	RegisterFunc         func(e model.Employee) error
	GetProfileFunc       func() (model.Employee, error)
	ListEmployeesFunc    func() ([]model.Employee, error)
	GetEmployeeFunc      func(id int64) (model.Employee, error)
	UpdateEmployeeFunc   func(id int64, e model.Employee) error
	DeleteEmployeeFunc   func(id int64) error
}

func (m *MockBackend) Login(_ context.Context, email, password string) (api.LoginResult, error) {
	return m.LoginFunc(email, password)
}

func (m *MockBackend) CheckEmailExists(_ context.Context, email string) bool {
	return m.CheckEmailExistsFunc(email)
}

func (m *MockBackend) Register(_ context.Context, e model.Employee) error {
	return m.RegisterFunc(e)
}

func (m *MockBackend) GetProfile(context.Context, api.Credentials) (model.Employee, error) {
	return m.GetProfileFunc()
}

func (m *MockBackend) ListEmployees(context.Context, api.Credentials) ([]model.Employee, error) {
	return m.ListEmployeesFunc()
}

func (m *MockBackend) GetEmployee(_ context.Context, _ api.Credentials, id int64) (model.Employee, error) {
	return m.GetEmployeeFunc(id)
}

func (m *MockBackend) UpdateEmployee(_ context.Context, _ api.Credentials, id int64, e model.Employee) error {
	return m.UpdateEmployeeFunc(id, e)
}

func (m *MockBackend) DeleteEmployee(_ context.Context, _ api.Credentials, id int64) error {
	return m.DeleteEmployeeFunc(id)
}

type MockPublisher struct {
	mu     sync.Mutex
	Events []queue.ActivityEvent
}

func (p *MockPublisher) Publish(_ context.Context, ev queue.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, ev)
	return nil
}

func newSession(t *testing.T, token string) *session.Session {
	t.Helper()
	ctx := context.Background()
	s, err := session.NewStore(session.NewMemoryBackend(), time.Hour).Open(ctx, "sid")
	require.NoError(t, err)
	if token != "" {
		require.NoError(t, s.Set(ctx, token, "r", model.RoleAdmin))
	}
	return s
}

func registerDraft() map[string]string {
	return map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "secret1", "address": "1 Main St",
		"department": "R&D", "role": "EMPLOYEE", "phone": "0123456789", "designation": "Lead",
		"jobTitle": "Engineer", "salary": "5000", "status": "Active",
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Admin Lands On Admin Dashboard", func(t *testing.T) {
		pub := &MockPublisher{}
		b := &MockBackend{LoginFunc: func(email, password string) (api.LoginResult, error) {
			assert.Equal(t, "a@b.com", email)
			assert.Equal(t, "secret1", password)
			return api.LoginResult{StatusCode: 200, Token: "t", RefreshToken: "r", Role: "ADMIN"}, nil
		}}
		w := New(b, NewMemoryGuard(), pub, 0)
		sess := newSession(t, "")
		before := sess.ID()
		form := validation.NewForm(validation.LoginSchema, map[string]string{"email": "a@b.com", "password": "secret1"})

		res := w.Login(ctx, sess, form)
		assert.Equal(t, AdminDashboardPath, res.Redirect)
		assert.NotEqual(t, before, sess.ID())
		tok, _ := sess.Get(session.KeyToken)
		ref, _ := sess.Get(session.KeyRefreshToken)
		assert.Equal(t, "t", tok)
		assert.Equal(t, "r", ref)
		assert.Equal(t, "ADMIN", sess.Role())
		require.Len(t, pub.Events, 1)
		assert.Equal(t, queue.EventLogin, pub.Events[0].Type)
	})

	t.Run("Employee Lands On Employee Dashboard", func(t *testing.T) {
		b := &MockBackend{LoginFunc: func(string, string) (api.LoginResult, error) {
			return api.LoginResult{StatusCode: 200, Token: "t", Role: "EMPLOYEE"}, nil
		}}
		res := New(b, nil, nil, 0).Login(ctx, newSession(t, ""),
			validation.NewForm(validation.LoginSchema, map[string]string{"email": "e@b.com", "password": "pw"}))
		assert.Equal(t, EmployeeDashboardPath, res.Redirect)
	})

	t.Run("Server Message Surfaces", func(t *testing.T) {
		b := &MockBackend{LoginFunc: func(string, string) (api.LoginResult, error) {
			return api.LoginResult{}, &api.StatusError{Status: 401, Message: "Invalid credentials"}
		}}
		sess := newSession(t, "")
		form := validation.NewForm(validation.LoginSchema, map[string]string{"email": "a@b.com", "password": "x"})
		before := sess.ID()
		res := New(b, nil, nil, 0).Login(ctx, sess, form)
		assert.Empty(t, res.Redirect)
		assert.Equal(t, before, sess.ID())
		assert.Equal(t, "Invalid credentials", form.Message)
		assert.False(t, sess.Authenticated())
	})

	t.Run("Transport Failure", func(t *testing.T) {
		b := &MockBackend{LoginFunc: func(string, string) (api.LoginResult, error) {
			return api.LoginResult{}, errors.Wrap(api.ErrTransport, "dial")
		}}
		form := validation.NewForm(validation.LoginSchema, map[string]string{"email": "a@b.com", "password": "x"})
		New(b, nil, nil, 0).Login(ctx, newSession(t, ""), form)
		assert.Equal(t, LoginErrorMessage, form.Message)
	})

	t.Run("Missing Fields Skip Backend", func(t *testing.T) {
		form := validation.NewForm(validation.LoginSchema, nil)
		res := New(&MockBackend{}, nil, nil, 0).Login(ctx, newSession(t, ""), form)
		assert.Empty(t, res.Redirect)
		assert.Len(t, form.Errors, 2)
	})
}

func TestLogout(t *testing.T) {
	pub := &MockPublisher{}
	sess := newSession(t, "t")
	res := New(&MockBackend{}, nil, pub, 0).Logout(context.Background(), sess)
	assert.Equal(t, LoginPath, res.Redirect)
	assert.Equal(t, LoggedOutMessage, res.FlashText)
	assert.False(t, sess.Authenticated())
	require.Len(t, pub.Events, 1)
	assert.Equal(t, "ADMIN", pub.Events[0].Actor)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Validation Halts Before Any Call", func(t *testing.T) {
		b := &MockBackend{
			CheckEmailExistsFunc: func(string) bool { t.Fatal("check-email called"); return false },
			RegisterFunc:         func(model.Employee) error { t.Fatal("register called"); return nil },
		}
		d := registerDraft()
		d["salary"] = "-5"
		form := validation.NewForm(validation.RegisterSchema, d)
		res := New(b, nil, nil, 0).Register(ctx, newSession(t, "t"), form)
		assert.Empty(t, res.Redirect)
		assert.Equal(t, "Salary must be a positive number.", form.Error("salary"))
	})

	t.Run("Email Taken", func(t *testing.T) {
		b := &MockBackend{
			CheckEmailExistsFunc: func(email string) bool { return email == "ada@example.com" },
			RegisterFunc:         func(model.Employee) error { t.Fatal("register called"); return nil },
		}
		form := validation.NewForm(validation.RegisterSchema, registerDraft())
		res := New(b, nil, nil, 0).Register(ctx, newSession(t, "t"), form)
		assert.Empty(t, res.Redirect)
		assert.Equal(t, EmailTakenMessage, form.Error("email"))
		assert.Len(t, form.Errors, 1)
	})

	t.Run("Success Redirects After Delay", func(t *testing.T) {
		pub := &MockPublisher{}
		var sent model.Employee
		b := &MockBackend{
			CheckEmailExistsFunc: func(string) bool { return false },
			RegisterFunc:         func(e model.Employee) error { sent = e; return nil },
		}
		form := validation.NewForm(validation.RegisterSchema, registerDraft())
		res := New(b, nil, pub, 0).Register(ctx, newSession(t, "t"), form)
		assert.Equal(t, AdminDashboardPath, res.Redirect)
		assert.Equal(t, DefaultRegisterDelay, res.RedirectAfter)
		assert.Equal(t, RegisteredMessage, form.Success)
		assert.Equal(t, "secret1", sent.Password)
		assert.Equal(t, 5000.0, sent.Salary)
		require.Len(t, pub.Events, 1)
		assert.Equal(t, queue.EventRegistered, pub.Events[0].Type)
		assert.Equal(t, "ada@example.com", pub.Events[0].Email)
	})

	t.Run("Server Failure Message Or Fallback", func(t *testing.T) {
		b := &MockBackend{
			CheckEmailExistsFunc: func(string) bool { return false },
			RegisterFunc: func(model.Employee) error {
				return &api.StatusError{Status: 400, Message: "Phone already used"}
			},
		}
		form := validation.NewForm(validation.RegisterSchema, registerDraft())
		New(b, nil, nil, 0).Register(ctx, newSession(t, "t"), form)
		assert.Equal(t, "Phone already used", form.Message)

		b.RegisterFunc = func(model.Employee) error { return &api.StatusError{Status: 500} }
		New(b, nil, nil, 0).Register(ctx, newSession(t, "t"), form)
		assert.Equal(t, RegisterFailedMessage, form.Message)

		b.RegisterFunc = func(model.Employee) error { return errors.Wrap(api.ErrTransport, "dial") }
		New(b, nil, nil, 0).Register(ctx, newSession(t, "t"), form)
		assert.Equal(t, RegisterErrorMessage, form.Message)
		assert.Empty(t, form.Success)
	})

	t.Run("Second Submit While In Flight Is Rejected", func(t *testing.T) {
		guard := NewMemoryGuard()
		sess := newSession(t, "t")
		release, ok := guard.Acquire(ctx, sess.ID()+":register")
		require.True(t, ok)

		b := &MockBackend{
			CheckEmailExistsFunc: func(string) bool { t.Fatal("check-email called"); return false },
		}
		form := validation.NewForm(validation.RegisterSchema, registerDraft())
		res := New(b, guard, nil, 0).Register(ctx, sess, form)
		assert.Empty(t, res.Redirect)
		assert.Equal(t, BusyMessage, form.Message)

		release()
		b.CheckEmailExistsFunc = func(string) bool { return true }
		New(b, guard, nil, 0).Register(ctx, sess, form)
		assert.Equal(t, EmailTakenMessage, form.Error("email"))
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Edit Form Loads Record", func(t *testing.T) {
		b := &MockBackend{GetEmployeeFunc: func(id int64) (model.Employee, error) {
			return model.Employee{ID: id, Name: "Bob", Salary: 1200.5}, nil
		}}
		v := New(b, nil, nil, 0).EditForm(ctx, newSession(t, "t"), 3)
		require.Equal(t, flow.Ready, v.State)
		assert.Equal(t, "Bob", v.Data.Value("name"))
		assert.Equal(t, "1200.5", v.Data.Value("salary"))
	})

	t.Run("Success", func(t *testing.T) {
		var gotID int64
		var got model.Employee
		b := &MockBackend{UpdateEmployeeFunc: func(id int64, e model.Employee) error {
			gotID, got = id, e
			return nil
		}}
		d := registerDraft()
		delete(d, "password")
		form := validation.NewForm(validation.UpdateSchema, d)
		res := New(b, nil, nil, 0).Update(ctx, newSession(t, "t"), 3, form)
		assert.Equal(t, EmployeesPath, res.Redirect)
		assert.Equal(t, UpdatedMessage, res.FlashText)
		assert.Equal(t, int64(3), gotID)
		assert.Equal(t, "1 Main St", got.Address)
	})

	t.Run("Network Failure Keeps Draft", func(t *testing.T) {
		b := &MockBackend{UpdateEmployeeFunc: func(int64, model.Employee) error {
			return errors.Wrap(api.ErrTransport, "dial")
		}}
		d := registerDraft()
		d["name"] = "Edited"
		form := validation.NewForm(validation.UpdateSchema, d)
		res := New(b, nil, nil, 0).Update(ctx, newSession(t, "t"), 3, form)
		assert.Empty(t, res.Redirect)
		assert.Equal(t, UpdateFailedMessage, form.Message)
		assert.Equal(t, "Edited", form.Value("name"))
	})

	t.Run("Invalid Draft Skips Backend", func(t *testing.T) {
		b := &MockBackend{UpdateEmployeeFunc: func(int64, model.Employee) error {
			t.Fatal("update called")
			return nil
		}}
		d := registerDraft()
		d["phone"] = "123"
		form := validation.NewForm(validation.UpdateSchema, d)
		res := New(b, nil, nil, 0).Update(ctx, newSession(t, "t"), 3, form)
		assert.Empty(t, res.Redirect)
		assert.Contains(t, form.Errors, "phone")
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Declined Confirmation Sends Nothing", func(t *testing.T) {
		b := &MockBackend{DeleteEmployeeFunc: func(int64) error { t.Fatal("delete called"); return nil }}
		res := New(b, nil, nil, 0).Delete(ctx, newSession(t, "t"), 4, func() bool { return false })
		assert.Equal(t, EmployeesPath, res.Redirect)
		assert.Empty(t, res.FlashText)

		res = New(b, nil, nil, 0).Delete(ctx, newSession(t, "t"), 4, nil)
		assert.Equal(t, EmployeesPath, res.Redirect)
	})

	t.Run("Success", func(t *testing.T) {
		deleted := int64(0)
		b := &MockBackend{DeleteEmployeeFunc: func(id int64) error { deleted = id; return nil }}
		res := New(b, nil, nil, 0).Delete(ctx, newSession(t, "t"), 4, func() bool { return true })
		assert.Equal(t, int64(4), deleted)
		assert.Equal(t, FlashSuccess, res.FlashKind)
		assert.Equal(t, DeletedMessage, res.FlashText)
	})

	t.Run("Failure", func(t *testing.T) {
		b := &MockBackend{DeleteEmployeeFunc: func(int64) error { return &api.StatusError{Status: 500} }}
		res := New(b, nil, nil, 0).Delete(ctx, newSession(t, "t"), 4, func() bool { return true })
		assert.Equal(t, EmployeesPath, res.Redirect)
		assert.Equal(t, FlashError, res.FlashKind)
		assert.Equal(t, DeleteFailedMessage, res.FlashText)
	})
}

// The session is cleared and the user sent to login whichever CRUD
// endpoint rejects the token.
func TestSessionRejectedByBackend(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	w := New(api.New(srv.URL, time.Second), NewMemoryGuard(), nil, 0)

	t.Run("List", func(t *testing.T) {
		sess := newSession(t, "t")
		v := w.Employees(ctx, sess)
		assert.Equal(t, flow.Error, v.State)
		assert.Equal(t, flow.LoginPath, v.Redirect)
		assert.False(t, sess.Authenticated())
	})

	t.Run("Get", func(t *testing.T) {
		sess := newSession(t, "t")
		v := w.EditForm(ctx, sess, 1)
		assert.Equal(t, flow.LoginPath, v.Redirect)
		assert.False(t, sess.Authenticated())
	})

	t.Run("Update", func(t *testing.T) {
		sess := newSession(t, "t")
		d := registerDraft()
		res := w.Update(ctx, sess, 1, validation.NewForm(validation.UpdateSchema, d))
		assert.Equal(t, flow.LoginPath, res.Redirect)
		assert.False(t, sess.Authenticated())
	})

	t.Run("Delete", func(t *testing.T) {
		sess := newSession(t, "t")
		res := w.Delete(ctx, sess, 1, func() bool { return true })
		assert.Equal(t, flow.LoginPath, res.Redirect)
		assert.False(t, sess.Authenticated())
	})

	t.Run("Profile", func(t *testing.T) {
		sess := newSession(t, "t")
		v := w.Profile(ctx, sess, AdminProfileFailedMessage)
		assert.Equal(t, flow.LoginPath, v.Redirect)
		_, ok := sess.Get(session.KeyRole)
		assert.False(t, ok)
	})
}

func TestMemoryGuard(t *testing.T) {
	g := NewMemoryGuard()
	release, ok := g.Acquire(context.Background(), "k")
	require.True(t, ok)
	_, ok = g.Acquire(context.Background(), "k")
	assert.False(t, ok)
	_, ok = g.Acquire(context.Background(), "other")
	assert.True(t, ok)
	release()
	_, ok = g.Acquire(context.Background(), "k")
	assert.True(t, ok)
}
