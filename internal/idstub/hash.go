package idstub

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	hashMemoryKB    uint32 = 64 * 1024
	hashTime        uint32 = 1
	hashParallelism uint8  = 2
	hashSaltLength         = 16
	hashKeyLength   uint32 = 32
	hashAlgorithmID        = "argon2id"
)

// hashPassword produces an argon2id hash in PHC string format.
func hashPassword(password string) (string, error) {
	salt := make([]byte, hashSaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, hashTime, hashMemoryKB, hashParallelism, hashKeyLength)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		hashAlgorithmID,
		argon2.Version,
		hashMemoryKB,
		hashTime,
		hashParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// verifyPassword checks a password against a PHC-formatted argon2id hash
// using the parameters encoded in the hash itself.
func verifyPassword(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != hashAlgorithmID {
		return false, errors.New("invalid hash format")
	}

	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || version != argon2.Version {
		return false, errors.New("unsupported argon2 version")
	}

	var memory, timeCost uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &parallelism); err != nil {
		return false, errors.New("invalid hash parameters")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errors.New("invalid salt encoding")
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, errors.New("invalid hash encoding")
	}

	computed := argon2.IDKey([]byte(password), salt, timeCost, memory, parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
