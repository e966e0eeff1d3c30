package forms

import (
	"context"
	"io"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/groophq/groopsync/internal/api"
	"github.com/groophq/groopsync/internal/model"
	"github.com/pkg/errors"
)

// FieldError is a validation failure tied to one input, rendered inline
// rather than as a banner. Duplicate-username conflicts map here.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

type ProfileForm struct {
	Username string `validate:"required,min=3,max=32"`
	Email    string `validate:"omitempty,email"`
	Bio      string `validate:"max=1000"`
}

type ProfileAPI interface {
	UpdateProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error)
	RegisterProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error)
	UploadAvatar(ctx context.Context, filename string, content io.Reader) (string, error)
}

// ProfileEditor drives profile save/register. The uploaded avatar URL is
// retained across a failed save so resubmission does not re-upload the image.
type ProfileEditor struct {
	api      ProfileAPI
	validate *validator.Validate

	mu        sync.Mutex
	avatarURL string
}

func NewProfileEditor(a ProfileAPI) *ProfileEditor {
	return &ProfileEditor{
		api:      a,
		validate: validator.New(),
	}
}

// UploadAvatar pushes the image immediately and keeps the hosted URL in
// hand for the next save attempt.
func (e *ProfileEditor) UploadAvatar(ctx context.Context, filename string, content io.Reader) (string, error) {
	u, err := e.api.UploadAvatar(ctx, filename, content)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	e.avatarURL = u
	e.mu.Unlock()
	return u, nil
}

// AvatarURL reports the uploaded-but-not-yet-saved avatar, if any.
func (e *ProfileEditor) AvatarURL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.avatarURL
}

// Save validates and updates the profile. The retained avatar URL rides
// along and is only released once the save succeeds.
func (e *ProfileEditor) Save(ctx context.Context, form *ProfileForm) (*model.Profile, error) {
	return e.submit(ctx, form, e.api.UpdateProfile)
}

// Register creates the profile for a new user. A duplicate username comes
// back as a FieldError on "username".
func (e *ProfileEditor) Register(ctx context.Context, form *ProfileForm) (*model.Profile, error) {
	return e.submit(ctx, form, e.api.RegisterProfile)
}

func (e *ProfileEditor) submit(ctx context.Context, form *ProfileForm, send func(context.Context, *model.Profile) (*model.Profile, error)) (*model.Profile, error) {
	if err := e.validate.Struct(form); err != nil {
		return nil, errors.Wrap(err, "profile validation failed")
	}

	e.mu.Lock()
	avatarURL := e.avatarURL
	e.mu.Unlock()

	saved, err := send(ctx, &model.Profile{
		Username:  form.Username,
		Email:     form.Email,
		Bio:       form.Bio,
		AvatarURL: avatarURL,
	})
	if api.IsConflict(err) {
		return nil, &FieldError{Field: "username", Message: err.Error()}
	}
	if err != nil {
		// The avatar URL stays retained: resubmitting skips the upload.
		return nil, err
	}

	e.mu.Lock()
	e.avatarURL = ""
	e.mu.Unlock()
	return saved, nil
}
