package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wishwell/wishwell-server/internal/domain/entity"
	repo "github.com/wishwell/wishwell-server/internal/domain/repository"
	"github.com/wishwell/wishwell-server/pkg/apperror"
	"github.com/wishwell/wishwell-server/pkg/helpers"
	"github.com/wishwell/wishwell-server/pkg/mailer"
)

// UserService is the credential store: it owns registration, login and
// profile access. Optional collaborators (ES, GCS, the email queue) are
// nil-guarded; their absence degrades the feature, never the request.
type UserService struct {
	Repo         repo.UserRepository
	JWT          *helpers.JWTManager
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESUsersIndex string
	Pub          *helpers.RabbitPublisher
	Logger       *logrus.Logger
	AppName      string
	MailEnabled  bool
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Age      *int
}

// Register creates a user with a bcrypt-hashed password. Duplicate email or
// username surfaces as a conflict.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, apperror.NewValidation("username, email and password are required")
	}
	if in.Age != nil && *in.Age < 0 {
		return nil, apperror.NewValidation("age must not be negative")
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &entity.User{
		Username: in.Username,
		Email:    entity.NormalizeEmail(in.Email),
		Password: hash,
		Age:      in.Age,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, apperror.NewConflict("email already registered")
		case errors.Is(err, repo.ErrDuplicateUsername):
			return nil, apperror.NewConflict("username already taken")
		}
		return nil, apperror.NewInternal("failed to create user", err)
	}

	s.enqueueWelcome(ctx, u)
	_ = s.indexUser(ctx, u)
	return u, nil
}

// Authenticate validates email/password. Unknown email and wrong password
// return the same message so callers cannot tell which case applied.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	if email == "" || password == "" {
		return nil, apperror.NewValidation("email and password are required")
	}
	u, err := s.Repo.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil || u == nil {
		return nil, apperror.NewAuth("invalid email or password")
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperror.NewAuth("invalid email or password")
	}
	return u, nil
}

// Login authenticates and issues a bearer token.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, "", time.Time{}, apperror.NewInternal("failed to issue token", err)
	}
	return u, token, exp, nil
}

// IssueToken signs a bearer token for an already-resolved identity.
func (s *UserService) IssueToken(u *entity.User) (string, time.Time, error) {
	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		return "", time.Time{}, apperror.NewInternal("failed to issue token", err)
	}
	return token, exp, nil
}

// GetProfile returns the identity sans password hash semantics; callers must
// never serialize the Password field.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, apperror.NewNotFound("user not found")
	}
	return u, nil
}

type UpdateProfileInput struct {
	Username *string
	Age      *int
}

// UpdateProfile applies a partial profile patch and re-indexes the profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, apperror.NewNotFound("user not found")
	}
	if in.Username != nil {
		if l := len(*in.Username); l < 3 || l > 30 {
			return nil, apperror.NewValidation("username must be between 3 and 30 characters")
		}
		u.Username = *in.Username
	}
	if in.Age != nil {
		if *in.Age < 0 {
			return nil, apperror.NewValidation("age must not be negative")
		}
		u.Age = in.Age
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateUsername) {
			return nil, apperror.NewConflict("username already taken")
		}
		return nil, apperror.NewInternal("failed to update profile", err)
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

// UploadAvatar streams an avatar to GCS and stores the public URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", apperror.NewInternal("avatar storage not configured", nil)
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return "", apperror.NewNotFound("user not found")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", apperror.NewInternal("failed to upload avatar", err)
	}
	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", apperror.NewInternal("failed to update profile", err)
	}
	_ = s.indexUser(ctx, u)
	return url, nil
}

// SearchUsers performs a multi_match search on username and email.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "username"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, apperror.NewInternal("search unavailable", err)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperror.NewInternal("search unavailable", err)
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *UserService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data: map[string]any{
			"Name":    u.Username,
			"AppName": s.AppName,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("failed to enqueue welcome email")
	}
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}
