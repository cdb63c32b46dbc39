// internal/identity/identity.go
package identity

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/vadr-vr/vrtrace/internal/types"
)

// Storage keys mirror the browser cookie names of the original web SDK so a
// host migrating data keeps the same layout.
const (
	sessionKey  = "__vadrAnalyticsSessionId"
	deviceKey   = "__vadrAnalyticsId"
	referrerKey = "__vadrAnalyticsSessionReferrer"
)

// record is one TTL-bounded value in external storage, the cookie analog.
type record struct {
	Value     string `json:"value"`
	ExpiresAt int64  `json:"expires_at"`
}

// Store persists session identity, device identity, and the session referrer
// with per-record expiry.
type Store struct {
	kv  types.KV
	now func() time.Time
	log *slog.Logger
}

// New creates a Store over the given key-value storage. A nil log falls back
// to the default logger.
func New(kv types.KV, log *slog.Logger) *Store {
	return NewWithNow(kv, time.Now, log)
}

// NewWithNow creates a Store with an injected time source.
func NewWithNow(kv types.KV, now func() time.Time, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{kv: kv, now: now, log: log}
}

func (s *Store) get(key string) (string, bool) {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		s.log.Warn("identity read failed", "key", key, "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.log.Warn("identity record corrupt", "key", key, "error", err)
		return "", false
	}
	if s.now().UnixMilli() >= rec.ExpiresAt {
		if err := s.kv.Delete(key); err != nil {
			s.log.Warn("identity expiry cleanup failed", "key", key, "error", err)
		}
		return "", false
	}
	return rec.Value, true
}

func (s *Store) set(key, value string, ttl time.Duration) {
	rec := record{
		Value:     value,
		ExpiresAt: s.now().Add(ttl).UnixMilli(),
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		s.log.Warn("identity record marshal failed", "key", key, "error", err)
		return
	}
	if err := s.kv.Put(key, raw); err != nil {
		s.log.Warn("identity write failed", "key", key, "error", err)
	}
}

// Session returns the persisted session token and start time, if still valid.
func (s *Store) Session() (types.SessionToken, int64, bool) {
	value, ok := s.get(sessionKey)
	if !ok {
		return "", 0, false
	}

	parts := strings.SplitN(value, "__", 2)
	if len(parts) != 2 {
		return "", 0, false
	}
	startMillis, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return types.SessionToken(parts[0]), startMillis, true
}

// SetSession persists the session token and start time for the given validity
// window. Called at session creation and refreshed on every flush.
func (s *Store) SetSession(token types.SessionToken, startMillis int64, ttl time.Duration) {
	value := fmt.Sprintf("%s__%d", token, startMillis)
	s.set(sessionKey, value, ttl)
	s.log.Debug("session identity stored", "value", value)
}

// DeviceID returns the persisted device identifier, generating and persisting
// a new one when absent or expired.
func (s *Store) DeviceID(ttl time.Duration) types.DeviceID {
	if value, ok := s.get(deviceKey); ok {
		return types.DeviceID(value)
	}

	id := types.NewDeviceID()
	s.set(deviceKey, string(id), ttl)
	s.log.Debug("device identity created", "device_id", string(id))
	return id
}

// Referrer returns the persisted session referrer.
func (s *Store) Referrer() (string, bool) {
	return s.get(referrerKey)
}

// SetReferrer persists the session referrer alongside the session identity.
func (s *Store) SetReferrer(referrer string, ttl time.Duration) {
	s.set(referrerKey, referrer, ttl)
}
