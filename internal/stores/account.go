package stores

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/redis/go-redis/v9"
)

const accountRecordVersionV1 = 1

var (
	ErrAccountExists    = errors.New("account already exists")
	ErrAccountNotFound  = errors.New("account not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrAccountCorrupted = errors.New("account record corrupted")
	ErrFieldTooLong     = errors.New("account field too long")
)

type AccountRecord struct {
	UserID       string
	Email        string
	PasswordHash string
	CreatedAt    int64
}

type AccountStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewAccountStore(redisClient redis.UniversalClient, prefix string) *AccountStore {
	if prefix == "" {
		prefix = "aga"
	}
	return &AccountStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *AccountStore) emailKey(email string) string {
	return s.prefix + ":email:" + NormalizeEmail(email)
}

func (s *AccountStore) idKey(userID string) string {
	return s.prefix + ":id:" + userID
}

// NormalizeEmail lowercases and trims an address so lookups are
// case-insensitive. Records store the address as originally provided.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create persists a new account. The email key is claimed with SETNX so two
// concurrent sign-ups for the same address cannot both succeed.
func (s *AccountStore) Create(ctx context.Context, record *AccountRecord) error {
	encoded, err := encodeAccountRecord(record)
	if err != nil {
		return err
	}

	claimed, err := s.redis.SetNX(ctx, s.emailKey(record.Email), encoded, 0).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !claimed {
		return ErrAccountExists
	}

	if err := s.redis.Set(ctx, s.idKey(record.UserID), NormalizeEmail(record.Email), 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*AccountRecord, error) {
	data, err := s.redis.Get(ctx, s.emailKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return decodeAccountRecord(data)
}

func (s *AccountStore) GetByID(ctx context.Context, userID string) (*AccountRecord, error) {
	email, err := s.redis.Get(ctx, s.idKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return s.GetByEmail(ctx, email)
}

// UpdatePassword replaces the stored hash under WATCH so a concurrent
// update cannot be silently overwritten with stale record fields.
func (s *AccountStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	email, err := s.redis.Get(ctx, s.idKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	key := s.emailKey(email)
	const maxRetries = 4

	for i := 0; i < maxRetries; i++ {
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			record, err := decodeAccountRecord(data)
			if err != nil {
				return err
			}
			record.PasswordHash = passwordHash

			encoded, err := encodeAccountRecord(record)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, encoded, 0)
				return nil
			})
			return err
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrAccountNotFound
			}
			if errors.Is(err, ErrAccountCorrupted) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil
	}

	return fmt.Errorf("%w: update contention", ErrStoreUnavailable)
}

func encodeAccountRecord(record *AccountRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(accountRecordVersionV1)
	if err := binary.Write(&buf, binary.BigEndian, record.CreatedAt); err != nil {
		return nil, err
	}

	for _, field := range []string{record.UserID, record.Email, record.PasswordHash} {
		if len(field) > 65535 {
			return nil, ErrFieldTooLong
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(field))); err != nil {
			return nil, err
		}
		buf.WriteString(field)
	}

	return buf.Bytes(), nil
}

func decodeAccountRecord(data []byte) (*AccountRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil || version != accountRecordVersionV1 {
		return nil, ErrAccountCorrupted
	}

	record := &AccountRecord{}
	if err := binary.Read(reader, binary.BigEndian, &record.CreatedAt); err != nil {
		return nil, ErrAccountCorrupted
	}

	for _, field := range []*string{&record.UserID, &record.Email, &record.PasswordHash} {
		var length uint16
		if err := binary.Read(reader, binary.BigEndian, &length); err != nil {
			return nil, ErrAccountCorrupted
		}
		raw := make([]byte, length)
		if _, err := io.ReadFull(reader, raw); err != nil {
			return nil, ErrAccountCorrupted
		}
		*field = string(raw)
	}

	return record, nil
}
