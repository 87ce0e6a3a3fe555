package export

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"
)

const bucketName = "artifacts"

// ErrAccessDenied is returned when a token is expired, already consumed, or
// presented by a different requester. Non-retryable.
var ErrAccessDenied = errors.New("access denied")

// Store is a bolt-backed gate over export artifacts. Each artifact is held
// under a capability token bound to one requester and one expiry; redeeming
// consumes the token atomically, so two concurrent retrievals of the same
// token cannot both succeed. Expired entries are swept lazily.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

type envelope struct {
	Artifact    Artifact  `json:"artifact"`
	RequesterID string    `json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewStore opens (or creates) the artifact database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare artifact bucket: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// Issue stores the artifact and returns a fresh single-use token bound to
// requesterID, valid until the returned expiry.
func (s *Store) Issue(artifact Artifact, requesterID string, ttl time.Duration) (string, time.Time, error) {
	if requesterID == "" {
		return "", time.Time{}, errors.New("requester id is required")
	}
	if ttl <= 0 {
		return "", time.Time{}, errors.New("token ttl must be positive")
	}

	token, err := newToken()
	if err != nil {
		return "", time.Time{}, err
	}

	created := s.now().UTC()
	env := envelope{
		Artifact:    artifact,
		RequesterID: requesterID,
		CreatedAt:   created,
		ExpiresAt:   created.Add(ttl),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("marshal artifact envelope: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(token), data)
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("store artifact: %w", err)
	}

	return token, env.ExpiresAt, nil
}

// Redeem consumes the token and returns the artifact. The lookup, checks,
// and deletion happen inside a single write transaction; bolt serialises
// writers, which makes consumption atomic. An unknown or already-consumed
// token, an expired one, or a requester mismatch all yield ErrAccessDenied.
func (s *Store) Redeem(token, requesterID string) (*Artifact, error) {
	var artifact Artifact

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		data := b.Get([]byte(token))
		if data == nil {
			return fmt.Errorf("%w: unknown or already consumed token", ErrAccessDenied)
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return fmt.Errorf("decode artifact envelope: %w", err)
		}

		if s.now().UTC().After(env.ExpiresAt) {
			if err := b.Delete([]byte(token)); err != nil {
				return err
			}
			return fmt.Errorf("%w: token expired", ErrAccessDenied)
		}
		if env.RequesterID != requesterID {
			return fmt.Errorf("%w: token bound to a different requester", ErrAccessDenied)
		}

		artifact = env.Artifact
		return b.Delete([]byte(token))
	})
	if err != nil {
		return nil, err
	}

	return &artifact, nil
}

// SweepExpired removes every expired entry and reports how many were dropped.
// A stale token that was never redeemed simply disappears here.
func (s *Store) SweepExpired() (int, error) {
	removed := 0
	cutoff := s.now().UTC()

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var env envelope
			if err := json.Unmarshal(v, &env); err != nil {
				stale = append(stale, append([]byte(nil), k...))
				return nil
			}
			if cutoff.After(env.ExpiresAt) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, err
	}

	return removed, nil
}

func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
