// Package relay persists messages addressed to the owner as individual JSON
// records on disk, one file per message named by timestamp. Records are
// append-only: nothing in this module mutates or deletes them.
package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beatty/myagent/logging"
)

// Message is a single relayed message. Timestamp is ISO-8601; it doubles as
// the record identity.
type Message struct {
	Timestamp   string `json:"timestamp"`
	SenderEmail string `json:"sender_email"`
	Priority    string `json:"priority"`
	Body        string `json:"message"`
	OwnerName   string `json:"owner_name"`
}

// Store writes message records under a fixed per-user directory.
type Store struct {
	dir    string
	logger logging.Logger
	now    func() time.Time
}

// Options configure a Store.
type Options struct {
	Logger logging.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewStore constructs a Store rooted at dir.
func NewStore(dir string, optFns ...func(o *Options)) *Store {
	opts := Options{Logger: logging.NoOpLogger{}, Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{dir: dir, logger: opts.Logger, now: opts.Now}
}

// Dir returns the message directory.
func (s *Store) Dir() string { return s.dir }

// fileSafeTimestamp replaces the characters in an ISO-8601 timestamp that are
// awkward in filenames (`:` and `.`).
func fileSafeTimestamp(ts string) string {
	r := strings.NewReplacer(":", "-", ".", "-")
	return r.Replace(ts)
}

// Save stamps the message (when unstamped) and writes it as a pretty-printed
// JSON file named by its timestamp. Messages saved within the same clock
// reading get a numeric suffix; an existing record is never overwritten.
// Returns the path of the record written.
func (s *Store) Save(msg Message) (string, error) {
	if msg.Timestamp == "" {
		msg.Timestamp = s.now().UTC().Format(time.RFC3339)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create message directory: %w", err)
	}

	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode message: %w", err)
	}

	base := fileSafeTimestamp(msg.Timestamp)
	for i := 1; ; i++ {
		name := base
		if i > 1 {
			name = fmt.Sprintf("%s-%d", base, i)
		}
		path := filepath.Join(s.dir, name+".json")

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return "", fmt.Errorf("create message record: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write message record: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("write message record: %w", err)
		}

		s.logger.Info("relay.message.saved", "path", path, "sender", msg.SenderEmail, "priority", msg.Priority)
		return path, nil
	}
}
