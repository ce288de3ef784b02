package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"userhub/config"
	"userhub/internal/domain/service"
	"userhub/internal/errors"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Variant = "argon2id"
	argon2Version = "v=19"
)

var errInvalidArgon2Hash = errors.New("argon2: invalid encoded hash format")

// defaultArgon2Config keeps a single hash in the tens-of-milliseconds range on commodity hardware.
var defaultArgon2Config = config.Argon2Config{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// argon2Hasher implements PasswordHasher with Argon2id and PHC-style encoded hashes:
// $argon2id$v=19$m=<memory>,t=<iterations>,p=<parallelism>$<salt>$<key>
type argon2Hasher struct {
	params config.Argon2Config
}

// NewArgon2Hasher returns an Argon2id PasswordHasher. Zero-valued parameters take defaults.
func NewArgon2Hasher(params *config.Argon2Config) service.PasswordHasher {
	p := defaultArgon2Config
	if params != nil {
		if params.Memory > 0 {
			p.Memory = params.Memory
		}
		if params.Iterations > 0 {
			p.Iterations = params.Iterations
		}
		if params.Parallelism > 0 {
			p.Parallelism = params.Parallelism
		}
		if params.SaltLength > 0 {
			p.SaltLength = params.SaltLength
		}
		if params.KeyLength > 0 {
			p.KeyLength = params.KeyLength
		}
	}

	return &argon2Hasher{params: p}
}

// Hash derives an Argon2id key with a fresh random salt.
func (h *argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "generate salt")
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$%s$%s$m=%d,t=%d,p=%d$%s$%s",
		argon2Variant,
		argon2Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Check re-derives the key with the parameters stored in the hash and compares in constant time.
func (h *argon2Hasher) Check(password, encoded string) bool {
	params, salt, key, err := decodeArgon2Hash(encoded)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, uint32(len(key)))

	return subtle.ConstantTimeCompare(computed, key) == 1
}

func decodeArgon2Hash(encoded string) (config.Argon2Config, []byte, []byte, error) {
	var params config.Argon2Config

	// Leading "$" yields an empty first element.
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != argon2Variant || parts[2] != argon2Version {
		return params, nil, nil, errInvalidArgon2Hash
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return params, nil, nil, errInvalidArgon2Hash
	}
	if params.Memory == 0 || params.Iterations == 0 || params.Parallelism == 0 {
		return params, nil, nil, errInvalidArgon2Hash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, errInvalidArgon2Hash
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, errInvalidArgon2Hash
	}

	return params, salt, key, nil
}
