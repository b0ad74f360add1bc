package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/kakeibo/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	findByIDFn                    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn                 func(ctx context.Context, email string) (*model.User, error)
	createWithDefaultCategoriesFn func(ctx context.Context, user *model.User, categories []*model.Category) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}
func (m *mockUserRepo) CreateWithDefaultCategories(ctx context.Context, user *model.User, categories []*model.Category) error {
	if m.createWithDefaultCategoriesFn != nil {
		return m.createWithDefaultCategoriesFn(ctx, user, categories)
	}
	return nil
}

type mockSessionRepo struct {
	createFn     func(ctx context.Context, session *model.Session) error
	findByIDFn   func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}
func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}
func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

const testSessionMaxAge = 7 * 24 * 60 * 60

// --- テスト ---

// TestService_Signup_CreatesDefaultCategories はサインアップで
// ちょうど5件のデフォルトカテゴリが同時作成されることを検証する。
func TestService_Signup_CreatesDefaultCategories(t *testing.T) {
	var createdUser *model.User
	var createdCategories []*model.Category

	userRepo := &mockUserRepo{
		createWithDefaultCategoriesFn: func(ctx context.Context, user *model.User, categories []*model.Category) error {
			createdUser = user
			createdCategories = categories
			return nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, nil, ServiceConfig{SessionMaxAge: testSessionMaxAge})

	user, err := svc.Signup(context.Background(), "Taro", "taro@example.com", "secret123")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user.ID == "" {
		t.Error("expected non-empty user ID")
	}
	if createdUser == nil {
		t.Fatal("expected CreateWithDefaultCategories to be called")
	}
	if createdUser.PasswordHash == "secret123" {
		t.Error("password must be stored hashed, not in plaintext")
	}
	if !ComparePassword(createdUser.PasswordHash, "secret123") {
		t.Error("stored hash does not match original password")
	}

	if len(createdCategories) != 5 {
		t.Fatalf("created categories = %d, want 5", len(createdCategories))
	}
	wantNames := []string{"Bills", "Food", "Transportation", "Entertainment", "Shopping"}
	for i, want := range wantNames {
		if createdCategories[i].Name != want {
			t.Errorf("category[%d].Name = %q, want %q", i, createdCategories[i].Name, want)
		}
		if createdCategories[i].UserID != createdUser.ID {
			t.Errorf("category[%d].UserID = %q, want %q", i, createdCategories[i].UserID, createdUser.ID)
		}
	}
}

// TestService_Signup_EmailTaken は登録済みメールアドレスが拒否されることを検証する。
func TestService_Signup_EmailTaken(t *testing.T) {
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email}, nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, nil, ServiceConfig{SessionMaxAge: testSessionMaxAge})

	_, err := svc.Signup(context.Background(), "Taro", "taro@example.com", "secret123")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeEmailTaken {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeEmailTaken)
	}
}

// TestService_Signup_MissingFields は必須フィールド欠落が拒否されることを検証する。
func TestService_Signup_MissingFields(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, nil, ServiceConfig{SessionMaxAge: testSessionMaxAge})

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{name: "missing name", userName: "", email: "a@example.com", password: "pw"},
		{name: "missing email", userName: "Taro", email: "", password: "pw"},
		{name: "missing password", userName: "Taro", email: "a@example.com", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.userName, tt.email, tt.password)
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Code != model.ErrCodeMissingField {
				t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeMissingField)
			}
		})
	}
}

// TestService_Login_Success は正しい資格情報でセッションが発行されることを検証する。
func TestService_Login_Success(t *testing.T) {
	hashed, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, PasswordHash: hashed}, nil
		},
	}

	var createdSession *model.Session
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			createdSession = session
			return nil
		},
	}

	svc := NewService(userRepo, sessionRepo, nil, ServiceConfig{SessionMaxAge: testSessionMaxAge})

	user, session, err := svc.Login(context.Background(), "taro@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user.ID = %q, want %q", user.ID, "user-1")
	}
	if createdSession == nil {
		t.Fatal("expected session Create to be called")
	}
	// セッションIDは256ビットのランダムトークン（hex64文字）であり、ユーザーIDそのものではない
	if len(session.ID) != 64 {
		t.Errorf("session ID length = %d, want 64", len(session.ID))
	}
	if session.ID == user.ID {
		t.Error("session ID must not be the raw user ID")
	}
	if session.UserID != "user-1" {
		t.Errorf("session.UserID = %q, want %q", session.UserID, "user-1")
	}

	wantExpiry := time.Now().Add(testSessionMaxAge * time.Second)
	if session.ExpiresAt.Before(wantExpiry.Add(-time.Minute)) || session.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("session.ExpiresAt = %v, want about %v", session.ExpiresAt, wantExpiry)
	}
}

// TestService_Login_WrongPassword はパスワード不一致が拒否され、
// セッションが作成されないことを検証する。
func TestService_Login_WrongPassword(t *testing.T) {
	hashed, _ := HashPassword("secret123")

	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, PasswordHash: hashed}, nil
		},
	}

	sessionCreated := false
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			sessionCreated = true
			return nil
		},
	}

	svc := NewService(userRepo, sessionRepo, nil, ServiceConfig{SessionMaxAge: testSessionMaxAge})

	_, _, err := svc.Login(context.Background(), "taro@example.com", "wrong-password")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeInvalidCredentials)
	}
	if sessionCreated {
		t.Error("session must not be created on failed login")
	}
}

// TestService_Login_UnknownEmail は未登録メールアドレスが
// パスワード不一致と同一のエラーで拒否されることを検証する。
func TestService_Login_UnknownEmail(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, nil, ServiceConfig{SessionMaxAge: testSessionMaxAge})

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "secret123")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeInvalidCredentials)
	}
}

// TestService_Logout はセッションが削除されることを検証する。
func TestService_Logout(t *testing.T) {
	deletedID := ""
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}

	svc := NewService(&mockUserRepo{}, sessionRepo, nil, ServiceConfig{SessionMaxAge: testSessionMaxAge})

	if err := svc.Logout(context.Background(), "session-abc"); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if deletedID != "session-abc" {
		t.Errorf("deleted session ID = %q, want %q", deletedID, "session-abc")
	}
}

// TestService_GetCurrentUser_InvalidSession は無効なセッションが
// UNAUTHORIZEDとして扱われることを検証する。
func TestService_GetCurrentUser_InvalidSession(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, nil, ServiceConfig{SessionMaxAge: testSessionMaxAge})

	tests := []struct {
		name      string
		sessionID string
	}{
		{name: "empty session ID", sessionID: ""},
		{name: "unknown session ID", sessionID: "does-not-exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetCurrentUser(context.Background(), tt.sessionID)
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Code != model.ErrCodeUnauthorized {
				t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeUnauthorized)
			}
		})
	}
}

// TestService_GetCurrentUser_Success は有効なセッションからユーザーが解決されることを検証する。
func TestService_GetCurrentUser_Success(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: "Taro", Email: "taro@example.com"}, nil
		},
	}
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}

	svc := NewService(userRepo, sessionRepo, nil, ServiceConfig{SessionMaxAge: testSessionMaxAge})

	user, err := svc.GetCurrentUser(context.Background(), "session-abc")
	if err != nil {
		t.Fatalf("GetCurrentUser returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user.ID = %q, want %q", user.ID, "user-1")
	}
}
