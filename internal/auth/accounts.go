// Package auth manages customer accounts and the per-request session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/store"
	"github.com/astra29104/Travelbolt/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinAge            = 18
	MinPasswordLength = 6
)

// Error is an authentication or authorization failure.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return e.Reason }

var (
	ErrInvalidCredentials = &Error{Reason: "invalid email or password"}
	ErrNoSession          = &Error{Reason: "please log in to continue"}
	ErrForbidden          = &Error{Reason: "you must be logged in as an admin to access this page"}
)

// Accounts signs users up and in against the users table.
type Accounts struct {
	Users *catalog.Users
	Cost  int // bcrypt cost

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAccounts(users *catalog.Users) *Accounts {
	return &Accounts{Users: users, Cost: bcrypt.DefaultCost}
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Age             int
	Location        string
}

func (in SignupInput) validate() validation.Errors {
	errs := validation.Errors{}
	if strings.TrimSpace(in.Name) == "" {
		errs.Add("name", "Name is required.")
	}
	if strings.TrimSpace(in.Email) == "" {
		errs.Add("email", "Email is required.")
	} else if !catalog.ValidEmail(catalog.NormalizeEmail(in.Email)) {
		errs.Add("email", "Please enter a valid email address.")
	}
	if in.Password == "" {
		errs.Add("password", "Password is required.")
	} else if len(in.Password) < MinPasswordLength {
		errs.Add("password", fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength))
	}
	if in.ConfirmPassword == "" {
		errs.Add("confirm_password", "Please confirm your password.")
	} else if in.Password != in.ConfirmPassword {
		errs.Add("confirm_password", "Passwords do not match.")
	}
	if in.Age <= 0 {
		errs.Add("age", "Age is required.")
	} else if in.Age < MinAge {
		errs.Add("age", fmt.Sprintf("You must be at least %d years old to sign up.", MinAge))
	}
	if strings.TrimSpace(in.Location) == "" {
		errs.Add("location", "Location is required.")
	}
	return errs
}

// Signup creates a non-admin user.
func (a *Accounts) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	errs := in.validate()
	if err := errs.Err(); err != nil {
		return models.User{}, err
	}
	return a.create(ctx, in, false)
}

// CreateAdmin creates a back-office user. Only the age rule is relaxed.
func (a *Accounts) CreateAdmin(ctx context.Context, name, email, password string) (models.User, error) {
	in := SignupInput{Name: name, Email: email, Password: password, ConfirmPassword: password, Age: MinAge, Location: "-"}
	if err := in.validate().Err(); err != nil {
		return models.User{}, err
	}
	return a.create(ctx, in, true)
}

func (a *Accounts) create(ctx context.Context, in SignupInput, admin bool) (models.User, error) {
	email := catalog.NormalizeEmail(in.Email)
	if _, exists, err := a.Users.ByEmail(ctx, email); err != nil {
		return models.User{}, err
	} else if exists {
		return models.User{}, validation.Field("email", "An account with this email already exists.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.Cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user, err := a.Users.Create(ctx, models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Age:          in.Age,
		Location:     strings.TrimSpace(in.Location),
		IsAdmin:      admin,
	})
	if errors.Is(err, store.ErrConflict) {
		return models.User{}, validation.Field("email", "An account with this email already exists.")
	}
	if err != nil {
		return models.User{}, err
	}
	slog.Info("User created", "user_id", user.ID, "admin", admin)
	return user, nil
}

// Login checks email and password.
func (a *Accounts) Login(ctx context.Context, email, password string) (models.User, error) {
	user, found, err := a.Users.ByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if !found {
		// Unknown emails still pay for a hash comparison.
		bcrypt.CompareHashAndPassword(a.dummy(), []byte(password))
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (a *Accounts) dummy() []byte {
	a.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("travelbolt-no-such-user"), a.Cost)
		if err != nil {
			slog.Error("Failed to generate placeholder hash", "error", err)
			return
		}
		a.dummyHash = h
	})
	return a.dummyHash
}

// UpdateProfile edits the user's name, age and location.
func (a *Accounts) UpdateProfile(ctx context.Context, userID, name string, age int, location string) (models.User, error) {
	errs := validation.Errors{}
	name, location = strings.TrimSpace(name), strings.TrimSpace(location)
	if name == "" {
		errs.Add("name", "Name is required.")
	}
	if age < MinAge {
		errs.Add("age", fmt.Sprintf("Age must be at least %d.", MinAge))
	}
	if location == "" {
		errs.Add("location", "Location is required.")
	}
	if err := errs.Err(); err != nil {
		return models.User{}, err
	}
	return a.Users.Update(ctx, userID, store.Values{"name": name, "age": age, "location": location})
}
