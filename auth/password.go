package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	MethodPBKDF2SHA256 = "pbkdf2:sha256"
	MethodBcrypt       = "bcrypt"

	DefaultSaltLength = 8
	DefaultIterations = 600000

	saltChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// PasswordHasher produces and verifies salted one-way password hashes.
//
// pbkdf2 hashes are stored as "pbkdf2:sha256:<iterations>$<salt>$<hex digest>".
// bcrypt hashes are stored in their native "$2a$..." form. Check accepts
// either format regardless of Method, so switching methods keeps existing
// accounts usable.
type PasswordHasher struct {
	Method     string
	Iterations int
	SaltLength int
	BcryptCost int
}

// NewPasswordHasher returns a hasher for method. Zero iterations selects
// DefaultIterations.
func NewPasswordHasher(method string, iterations int) *PasswordHasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &PasswordHasher{
		Method:     method,
		Iterations: iterations,
		SaltLength: DefaultSaltLength,
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Hash returns the encoded hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	switch h.Method {
	case MethodBcrypt:
		b, err := bcrypt.GenerateFromPassword([]byte(password), h.BcryptCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(b), nil
	case MethodPBKDF2SHA256, "":
		salt, err := genSalt(h.SaltLength)
		if err != nil {
			return "", err
		}
		digest := pbkdf2SHA256(password, salt, h.Iterations)
		return fmt.Sprintf("%s:%d$%s$%s", MethodPBKDF2SHA256, h.Iterations, salt, digest), nil
	default:
		return "", fmt.Errorf("unsupported password method %q", h.Method)
	}
}

// Check reports whether password matches the encoded hash.
func (h *PasswordHasher) Check(encoded, password string) bool {
	if strings.HasPrefix(encoded, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
	}

	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method, salt, want := parts[0], parts[1], parts[2]

	iterations, ok := parsePBKDF2Method(method)
	if !ok {
		return false
	}
	got := pbkdf2SHA256(password, salt, iterations)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// parsePBKDF2Method accepts "pbkdf2:sha256" and "pbkdf2:sha256:<n>".
func parsePBKDF2Method(method string) (int, bool) {
	fields := strings.Split(method, ":")
	if len(fields) < 2 || fields[0] != "pbkdf2" || fields[1] != "sha256" {
		return 0, false
	}
	if len(fields) == 2 {
		return DefaultIterations, true
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func pbkdf2SHA256(password, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, sha256.Size, sha256.New)
	return hex.EncodeToString(key)
}

func genSalt(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("salt length must be positive, got %d", n)
	}
	max := big.NewInt(int64(len(saltChars)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate salt: %w", err)
		}
		b[i] = saltChars[idx.Int64()]
	}
	return string(b), nil
}
