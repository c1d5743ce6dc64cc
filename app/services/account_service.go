package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Rakhulsr/bigcorp-shop/app/helpers"
	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/Rakhulsr/bigcorp-shop/app/repositories"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// DefaultVerificationTTL is how long an emailed verification link stays valid.
const DefaultVerificationTTL = 24 * time.Hour

type RegisterInput struct {
	Username        string `form:"username" validate:"required,max=150,username"`
	Email           string `form:"email" validate:"required,email,max=254"`
	Password        string `form:"password1" validate:"required,min=8,max=128"`
	ConfirmPassword string `form:"password2" validate:"required,eqfield=Password"`
}

type ProfileInput struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"required,email,max=254"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
}

type AccountService struct {
	userRepo  repositories.UserRepositoryImpl
	tokens    *TokenIssuer
	mail      MailEnqueuer
	validator *validator.Validate
	baseURL   string
}

func NewAccountService(userRepo repositories.UserRepositoryImpl, tokens *TokenIssuer, mail MailEnqueuer, validate *validator.Validate, baseURL string) *AccountService {
	return &AccountService{
		userRepo:  userRepo,
		tokens:    tokens,
		mail:      mail,
		validator: validate,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

func (s *AccountService) validate(in interface{}) error {
	if err := s.validator.Struct(in); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return FieldErrors(helpers.FormatValidationErrors(validationErrors))
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// Register creates an inactive account and queues its verification email. A failed or
// dropped email leaves the account in place; the user can ask for the link again.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	errs := FieldErrors{}
	existing, err := s.userRepo.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		errs["username"] = "A user with that username already exists."
	}
	existing, err = s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		errs["email"] = "A user with that email already exists."
	}
	if len(errs) > 0 {
		return nil, errs
	}

	hash := helpers.HashPassword(in.Password)
	if hash == "" {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Role:     models.RoleCustomer,
		IsActive: false,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, FieldErrors{"username": "A user with that username or email already exists."}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	log.Printf("Register: user %s (%s) created, awaiting verification", user.Username, user.ID)

	s.sendVerification(user)
	return user, nil
}

func (s *AccountService) sendVerification(user *models.User) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		log.Printf("sendVerification: failed to issue token for user %s: %v", user.ID, err)
		return
	}
	link := fmt.Sprintf("%s/email/verify/%s/", s.baseURL, token)
	s.mail.Enqueue(Email{
		To:       user.Email,
		Subject:  "Confirm your email address",
		HTMLBody: BuildVerificationEmailBody(user.Username, link, int(s.tokens.ttl.Hours())),
	})
}

// ResendVerification is silent about unknown or already active addresses.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if user == nil || user.IsActive {
		return nil
	}
	s.sendVerification(user)
	return nil
}

// Verify activates the account named by token. A token stops working once its account is active.
func (s *AccountService) Verify(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsActive || user.Email != claims.Email {
		return nil, ErrInvalidToken
	}

	if err := s.userRepo.Activate(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	user.IsActive = true
	return user, nil
}

func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to load user %q: %w", username, err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	if !helpers.PasswordCompare(user.Password, []byte(password)) {
		return nil, ErrUnauthorized
	}
	if !user.IsActive {
		return nil, ErrUnauthorized
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		log.Printf("Authenticate: %v", err)
	}
	return user, nil
}

// ActiveUser returns the account behind a session, or ErrUnauthorized when it is gone or inactive.
func (s *AccountService) ActiveUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	user, err := s.ActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	errs := FieldErrors{}
	if in.Username != user.Username {
		other, err := s.userRepo.FindByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			errs["username"] = "A user with that username already exists."
		}
	}
	if in.Email != user.Email {
		other, err := s.userRepo.FindByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			errs["email"] = "A user with that email already exists."
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	user.Username = in.Username
	user.Email = in.Email
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	if err := s.userRepo.Update(ctx, user); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, FieldErrors{"username": "A user with that username or email already exists."}
		}
		return nil, fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return user, nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.ActiveUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", user.ID, err)
	}
	log.Printf("DeleteAccount: user %s (%s) deleted", user.Username, user.ID)
	return nil
}

// CreateAdmin makes an active staff account, used from the command line.
func (s *AccountService) CreateAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	in := RegisterInput{Username: username, Email: email, Password: password, ConfirmPassword: password}
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	user := &models.User{
		Username: strings.TrimSpace(username),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: helpers.HashPassword(password),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, fmt.Errorf("user %q: %w", username, ErrUniquenessViolation)
		}
		return nil, err
	}
	return user, nil
}
