// Package credstore persists per-user credentials and verifies logins.
//
// Passwords are stored as salted argon2id digests, never as plaintext.
// Records live in a storage.Repository under the users collection, so the
// store works identically over BBolt, PostgreSQL, or memory.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/ceciliaos/ceciliad/internal/util"
	"github.com/ceciliaos/ceciliad/storage"
)

var (
	// ErrDuplicateUser is returned when registering a username that already exists.
	ErrDuplicateUser = errors.New("username already taken")
	// ErrInvalidInput is returned when the username or password fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when the username does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// usernamePattern matches 3-32 chars, starting with a lowercase letter,
// lowercase alphanumerics and underscore only.
var usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{2,31}$`)

const minPasswordLen = 6

// User is a registered account. The password hash is a salted argon2id
// digest; HomeDir is where the command executor and file service confine
// this user's activity.
type User struct {
	Username    string         `json:"username"`
	PasswordKey passwordRecord `json:"password"`
	HomeDir     string         `json:"home_dir"`
	CreatedAt   time.Time      `json:"created_at"`
	LastLoginAt time.Time      `json:"last_login_at,omitempty"`
}

type passwordRecord struct {
	Salt   []byte              `json:"salt"`
	Params util.Argon2idParams `json:"params"`
	Digest []byte              `json:"digest"`
}

// Store maps usernames to verifiable credentials.
type Store struct {
	repo     storage.Repository
	homesDir string
}

// New creates a credential store persisting into repo. homesDir is the
// parent directory under which each user's home directory path is derived.
func New(repo storage.Repository, homesDir string) *Store {
	return &Store{repo: repo, homesDir: homesDir}
}

// ValidateUsername reports whether the username satisfies the account
// naming rules. Exposed so transport layers can reject early.
func ValidateUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// Register creates a new user with a salted password hash.
func (s *Store) Register(username, password string) (*User, error) {
	if !ValidateUsername(username) {
		return nil, fmt.Errorf("%w: username must be 3-32 chars, start with a letter, lowercase alphanumeric only", ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}
	if _, err := s.repo.Get(storage.CollectionUsers, username); err == nil {
		return nil, fmt.Errorf("%s: %w", username, ErrDuplicateUser)
	} else if !errors.Is(err, storage.ErrNotFound) && !errors.Is(err, storage.ErrCollectionNotFound) {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}

	rec, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &User{
		Username:    username,
		PasswordKey: rec,
		HomeDir:     filepath.Join(s.homesDir, username),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Verify checks a username/password pair and returns the user on success.
// The digest comparison is constant-time.
func (s *Store) Verify(username, password string) (*User, error) {
	user, err := s.Get(username)
	if err != nil {
		return nil, err
	}
	ok, err := util.CompareArgon2idKey(util.Normalize(password), user.PasswordKey.Salt, user.PasswordKey.Params, user.PasswordKey.Digest)
	if err != nil {
		return nil, fmt.Errorf("comparing password digest: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get returns the stored user record.
func (s *Store) Get(username string) (*User, error) {
	data, err := s.repo.Get(storage.CollectionUsers, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrCollectionNotFound) {
			return nil, fmt.Errorf("%s: %w", username, ErrNotFound)
		}
		return nil, err
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decoding user record: %w", err)
	}
	return &user, nil
}

// TouchLastLogin records a successful login timestamp.
func (s *Store) TouchLastLogin(username string) error {
	user, err := s.Get(username)
	if err != nil {
		return err
	}
	user.LastLoginAt = time.Now().UTC()
	return s.save(user)
}

func (s *Store) save(user *User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user record: %w", err)
	}
	return s.repo.Put(storage.CollectionUsers, user.Username, data)
}

func hashPassword(password string) (passwordRecord, error) {
	salt, err := util.RandomBytes(16)
	if err != nil {
		return passwordRecord{}, err
	}
	params := util.DefaultArgon2idParams()
	digest, err := util.DeriveArgon2idKey(util.Normalize(password), salt, params)
	if err != nil {
		return passwordRecord{}, err
	}
	return passwordRecord{Salt: salt, Params: params, Digest: digest}, nil
}
