package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/findosh/tourdesk/internal/models"
)

// RecordKey is the storage key of the durable session record
const RecordKey = "ts_session"

// DefaultTTL is how long a persisted session is honoured
const DefaultTTL = 10 * time.Minute

var (
	ErrNoSession      = errors.New("session: no persisted session")
	ErrCorruptSession = errors.New("session: corrupt session record")
	ErrExpiredSession = errors.New("session: session expired")
)

// Record is the wire shape of the durable session record
type Record struct {
	User   *models.User `json:"user"`
	Expiry int64        `json:"expiry"` // epoch millis
}

// Persistence reads and writes the session record with a fixed TTL
type Persistence struct {
	storage Storage
	ttl     time.Duration
	clock   Clock
}

// NewPersistence creates a persistence layer over storage. A zero ttl means
// DefaultTTL and a nil clock means SystemClock.
func NewPersistence(storage Storage, ttl time.Duration, clock Clock) *Persistence {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Persistence{storage: storage, ttl: ttl, clock: clock}
}

// TTL returns the session lifetime
func (p *Persistence) TTL() time.Duration {
	return p.ttl
}

// NextExpiry is the expiry a record written now would carry, truncated to
// the millisecond precision of the record.
func (p *Persistence) NextExpiry() time.Time {
	return time.UnixMilli(p.clock.Now().Add(p.ttl).UnixMilli())
}

// Save writes user with a fresh expiry and returns that expiry. A nil user
// deletes the record instead.
func (p *Persistence) Save(ctx context.Context, user *models.User) (time.Time, error) {
	if user == nil {
		return time.Time{}, p.Clear(ctx)
	}
	expiresAt := p.NextExpiry()
	return expiresAt, p.Write(ctx, user, expiresAt)
}

// Write stores user with the given expiry
func (p *Persistence) Write(ctx context.Context, user *models.User, expiresAt time.Time) error {
	data, err := json.Marshal(Record{User: user, Expiry: expiresAt.UnixMilli()})
	if err != nil {
		return fmt.Errorf("session: failed to marshal record: %w", err)
	}
	if err := p.storage.Set(ctx, RecordKey, data); err != nil {
		return fmt.Errorf("session: failed to write record: %w", err)
	}
	return nil
}

// Clear deletes the record. Deleting an absent record is not an error.
func (p *Persistence) Clear(ctx context.Context) error {
	if err := p.storage.Delete(ctx, RecordKey); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("session: failed to delete record: %w", err)
	}
	return nil
}

// Load reads the record. Corrupt and expired records are deleted before
// ErrCorruptSession or ErrExpiredSession is returned.
func (p *Persistence) Load(ctx context.Context) (*models.User, time.Time, error) {
	data, err := p.storage.Get(ctx, RecordKey)
	if errors.Is(err, ErrNotFound) {
		return nil, time.Time{}, ErrNoSession
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("session: failed to read record: %w", err)
	}

	rec, err := decodeRecord(data)
	if err != nil {
		p.discard(ctx)
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}

	if p.clock.Now().UnixMilli() >= rec.Expiry {
		p.discard(ctx)
		return nil, time.Time{}, ErrExpiredSession
	}

	return rec.User, time.UnixMilli(rec.Expiry), nil
}

// discard is best effort; a record that cannot be deleted is rejected again
// on the next load.
func (p *Persistence) discard(ctx context.Context) {
	_ = p.Clear(ctx)
}

func decodeRecord(data []byte) (*Record, error) {
	var raw struct {
		User   *models.User `json:"user"`
		Expiry *int64       `json:"expiry"`
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after record")
	}

	if raw.User == nil {
		return nil, errors.New("missing user")
	}
	if raw.Expiry == nil || *raw.Expiry <= 0 {
		return nil, errors.New("missing expiry")
	}
	if err := raw.User.Validate(); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}

	return &Record{User: raw.User, Expiry: *raw.Expiry}, nil
}
