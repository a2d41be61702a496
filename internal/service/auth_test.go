package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/auth"
	"github.com/sakif/snippet-share/internal/session"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T, users *fakeUserRepo, sessions session.Store) *AuthService {
	t.Helper()
	ps, err := auth.NewPasswordService(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewPasswordService: %v", err)
	}
	if sessions == nil {
		sessions = session.NewMemoryStore(time.Minute)
	}
	return NewAuthService(users, ps, sessions, discardLogger())
}

func TestRegister_Success(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newTestAuthService(t, users, nil)

	if err := svc.Register(context.Background(), "bob", "pass1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if len(users.users) != 1 {
		t.Fatalf("stored %d users, want 1", len(users.users))
	}
	stored := users.users[0]
	if stored.Username != "bob" {
		t.Errorf("Username = %q, want bob", stored.Username)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "pass1" {
		t.Errorf("PasswordHash = %q, want a bcrypt hash", stored.PasswordHash)
	}
}

func TestRegister_TooShort(t *testing.T) {
	cases := []struct {
		name, username, password string
	}{
		{"short username", "ab", "password"},
		{"short password", "alice", "pw"},
		{"both empty", "", ""},
		{"two multibyte chars", "åä", "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &fakeUserRepo{}
			svc := newTestAuthService(t, users, nil)

			err := svc.Register(context.Background(), tc.username, tc.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Register() error = %v, want ErrValidation", err)
			}
			if err.Error() != MsgRegisterTooShort {
				t.Errorf("message = %q, want %q", err.Error(), MsgRegisterTooShort)
			}
			if len(users.users) != 0 {
				t.Error("a user was persisted")
			}
		})
	}
}

func TestRegister_ThreeMultibyteCharsIsLongEnough(t *testing.T) {
	svc := newTestAuthService(t, &fakeUserRepo{}, nil)

	if err := svc.Register(context.Background(), "åäö", "ÅÄÖ"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
}

func TestRegister_GuestIsReserved(t *testing.T) {
	for _, pw := range []string{"pw", "valid-password"} {
		users := &fakeUserRepo{}
		svc := newTestAuthService(t, users, nil)

		err := svc.Register(context.Background(), "Guest", pw)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Register(Guest, %q) error = %v, want ErrValidation", pw, err)
		}
		if len(users.users) != 0 {
			t.Error("a user was persisted")
		}
	}
}

func TestRegister_Duplicate(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newTestAuthService(t, users, nil)
	ctx := context.Background()

	if err := svc.Register(ctx, "bob", "pass1"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	err := svc.Register(ctx, "bob", "other-password")
	if !errors.Is(err, apperror.ErrValidation) || !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Register() error = %v, want ErrValidation and ErrConflict", err)
	}
	if err.Error() != MsgRegisterDuplicate {
		t.Errorf("message = %q, want %q", err.Error(), MsgRegisterDuplicate)
	}
	if len(users.users) != 1 {
		t.Errorf("stored %d users, want 1", len(users.users))
	}
}

func TestRegister_StoreConstraintMapsToDuplicate(t *testing.T) {
	svc := newTestAuthService(t, &fakeUserRepo{raceConflict: true}, nil)

	err := svc.Register(context.Background(), "bob", "pass1")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Register() error = %v, want ErrValidation", err)
	}
	if err.Error() != MsgRegisterDuplicate {
		t.Errorf("message = %q, want %q", err.Error(), MsgRegisterDuplicate)
	}
}

func TestRegister_PasswordOver72Bytes(t *testing.T) {
	svc := newTestAuthService(t, &fakeUserRepo{}, nil)

	err := svc.Register(context.Background(), "bob", strings.Repeat("x", 73))
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Register() error = %v, want ErrValidation", err)
	}
}

func TestRegister_StoreError(t *testing.T) {
	svc := newTestAuthService(t, &fakeUserRepo{err: errStoreDown}, nil)

	err := svc.Register(context.Background(), "bob", "pass1")
	if err == nil {
		t.Fatal("Register() should fail when the store is down")
	}
	if errors.Is(err, apperror.ErrValidation) {
		t.Error("a store failure must not look like a validation error")
	}
	if !errors.Is(err, errStoreDown) {
		t.Errorf("Register() error = %v, want wrapped store error", err)
	}
}

func TestLogin_Success(t *testing.T) {
	sessions := session.NewMemoryStore(time.Minute)
	svc := newTestAuthService(t, &fakeUserRepo{}, sessions)
	ctx := context.Background()

	if err := svc.Register(ctx, "bob", "pass1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	sess, err := svc.Login(ctx, "bob", "pass1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if sess.Username != "bob" {
		t.Errorf("session username = %q, want bob", sess.Username)
	}

	stored, err := sessions.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if stored.Identity().Username != "bob" {
		t.Errorf("identity = %q, want bob", stored.Identity().Username)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc := newTestAuthService(t, &fakeUserRepo{}, nil)
	ctx := context.Background()
	if err := svc.Register(ctx, "bob", "pass1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, wrongPassword := svc.Login(ctx, "bob", "wrong")
	_, unknownUser := svc.Login(ctx, "nobody", "pass1")

	for _, err := range []error{wrongPassword, unknownUser} {
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("Login() error = %v, want ErrUnauthorized", err)
		}
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Errorf("messages differ: %q vs %q", wrongPassword, unknownUser)
	}
	if wrongPassword.Error() != MsgLoginFailed {
		t.Errorf("message = %q, want %q", wrongPassword, MsgLoginFailed)
	}
}

func TestLogin_StoreError(t *testing.T) {
	svc := newTestAuthService(t, &fakeUserRepo{err: errStoreDown}, nil)

	_, err := svc.Login(context.Background(), "bob", "pass1")
	if errors.Is(err, apperror.ErrUnauthorized) {
		t.Error("a store failure must not look like bad credentials")
	}
	if !errors.Is(err, errStoreDown) {
		t.Errorf("Login() error = %v, want wrapped store error", err)
	}
}

func TestLogin_SessionStoreError(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newTestAuthService(t, users, failingSessions{})
	ctx := context.Background()
	if err := svc.Register(ctx, "bob", "pass1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Login(ctx, "bob", "pass1")
	if !errors.Is(err, errStoreDown) {
		t.Errorf("Login() error = %v, want wrapped session store error", err)
	}
}

func TestLogout(t *testing.T) {
	sessions := session.NewMemoryStore(time.Minute)
	svc := newTestAuthService(t, &fakeUserRepo{}, sessions)
	ctx := context.Background()

	sess, _ := sessions.Create(ctx, "bob")

	svc.Logout(ctx, sess.ID)
	svc.Logout(ctx, sess.ID)
	svc.Logout(ctx, "")

	if _, err := sessions.Get(ctx, sess.ID); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("session still alive after Logout: %v", err)
	}
}

func TestLogout_DestroyErrorIsSwallowed(t *testing.T) {
	svc := newTestAuthService(t, &fakeUserRepo{}, failingSessions{})

	// Must not panic or block.
	svc.Logout(context.Background(), "sess-1")
}
