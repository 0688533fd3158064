// Package league owns the player registration lifecycle: the capacity and
// deadline gates, display-ID assignment, and the payment step.
package league

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"database/sql"

	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog/log"

	"github.com/vplcricket/registry/internal/db"
	"github.com/vplcricket/registry/internal/store"
	"github.com/vplcricket/registry/internal/uploads"
)

// StatusPending is the status every registration starts with and returns to
// on any payment submission.
const StatusPending = "Pending Approval"

const (
	vplIDPrefix = "VPL-"

	// PaymentMethodUPI is the one method that requires a proof-of-transfer
	// upload; cash and other methods need none.
	PaymentMethodUPI = "UPI"
)

var (
	ErrRegistrationClosed = errors.New("registration deadline has passed")
	ErrCapacityFull       = errors.New("registration capacity reached")
	ErrDuplicatePhone     = errors.New("phone number already registered")
	ErrPlayerNotFound     = errors.New("player not found")
)

// Submission carries the registration form fields. The core treats them as
// opaque strings; only phone participates in a constraint.
type Submission struct {
	FullName     string
	Age          string
	Phone        string
	Level        string
	ContactName  string
	ContactPhone string
	CurrentTeam  string
	PreviousTeam string
	PlayingRole  string
	PlayingStyle string
	JerseyName   string
	JerseyNumber string
	JerseySize   string
	Sleeves      string

	// Photo is the optional uploaded image; nil means the default photo.
	Photo io.Reader
}

type Engine struct {
	db      *db.DB
	uploads *uploads.Store

	deadline    time.Time
	capacity    int
	phoneRegion string

	now func() time.Time

	// Serializes the count-check-then-insert window. The unique indexes on
	// phone and vpl_id back-stop anything that slips through.
	mu sync.Mutex
}

type Options struct {
	Deadline    time.Time
	Capacity    int
	PhoneRegion string

	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

func NewEngine(database *db.DB, files *uploads.Store, opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		db:          database,
		uploads:     files,
		deadline:    opts.Deadline,
		capacity:    opts.Capacity,
		phoneRegion: opts.PhoneRegion,
		now:         now,
	}
}

func (e *Engine) Capacity() int { return e.capacity }

// Open reports whether the registration window is still open.
func (e *Engine) Open() bool {
	return !e.now().After(e.deadline)
}

// RemainingSlots returns how many of the configured seats are unclaimed.
func (e *Engine) RemainingSlots(ctx context.Context) (int, error) {
	count, err := e.db.Queries.CountPlayers(ctx)
	if err != nil {
		return 0, fmt.Errorf("error counting players: %w", err)
	}
	remaining := e.capacity - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Register runs the deadline gate, then atomically the capacity gate, the
// duplicate-phone check, display-ID assignment, and the insert. On success it
// returns the new player's internal ID and display ID for the payment step.
func (e *Engine) Register(ctx context.Context, sub Submission) (int64, string, error) {
	if !e.Open() {
		return 0, "", ErrRegistrationClosed
	}

	phone := e.CanonicalPhone(sub.Phone)

	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		playerID int64
		vplID    string
	)
	err := e.db.RunInTx(ctx, func(tx *db.DB) error {
		count, err := tx.Queries.CountPlayers(ctx)
		if err != nil {
			return fmt.Errorf("error counting players: %w", err)
		}
		if count >= int64(e.capacity) {
			return ErrCapacityFull
		}

		exists, err := tx.Queries.PlayerPhoneExists(ctx, phone)
		if err != nil {
			return fmt.Errorf("error checking phone: %w", err)
		}
		if exists {
			return ErrDuplicatePhone
		}

		ids, err := tx.Queries.ListVPLIDs(ctx)
		if err != nil {
			return fmt.Errorf("error listing display IDs: %w", err)
		}
		vplID = nextVPLID(ids)

		photo := uploads.DefaultPhoto
		if sub.Photo != nil {
			photo = vplID + ".jpg"
		}

		playerID, err = tx.Queries.CreatePlayer(ctx, store.CreatePlayerParams{
			VPLID:        vplID,
			FullName:     sub.FullName,
			Age:          sub.Age,
			Phone:        phone,
			Level:        sub.Level,
			ContactName:  sub.ContactName,
			ContactPhone: sub.ContactPhone,
			CurrentTeam:  sub.CurrentTeam,
			PreviousTeam: sub.PreviousTeam,
			PlayingRole:  sub.PlayingRole,
			PlayingStyle: sub.PlayingStyle,
			Photo:        photo,
			JerseyName:   sub.JerseyName,
			JerseyNumber: sub.JerseyNumber,
			JerseySize:   sub.JerseySize,
			Sleeves:      sub.Sleeves,
		})
		if err != nil {
			return fmt.Errorf("error creating player: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, "", err
	}

	// File write happens after the record commits; a failed write leaves the
	// registration intact and is surfaced in the logs only.
	if sub.Photo != nil {
		if err := e.uploads.Save(vplID+".jpg", sub.Photo); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("vpl_id", vplID).Msg("Failed to store player photo")
		}
	}

	return playerID, vplID, nil
}

// SubmitPayment records the payment method for a player, stores the proof
// when the method requires one, and always resets the status to
// StatusPending so a resubmission re-enters the review queue.
func (e *Engine) SubmitPayment(ctx context.Context, playerID int64, method string, proof io.Reader) error {
	player, err := e.db.Queries.GetPlayerByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("error loading player: %w", err)
	}

	proofName := player.PaymentProof
	if method == PaymentMethodUPI && proof != nil {
		proofName = "PAY_" + player.VPLID + ".jpg"
		if err := e.uploads.Save(proofName, proof); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("vpl_id", player.VPLID).Msg("Failed to store payment proof")
			proofName = player.PaymentProof
		}
	}

	err = e.db.Queries.UpdatePlayerPayment(ctx, store.UpdatePlayerPaymentParams{
		ID:            playerID,
		PaymentMethod: method,
		PaymentProof:  proofName,
		Status:        StatusPending,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("error updating payment: %w", err)
	}
	return nil
}

// CanonicalPhone normalizes a submitted phone number to E.164 when it parses
// for the configured region. Anything unparseable is kept verbatim; the core
// does not validate field formats.
func (e *Engine) CanonicalPhone(phone string) string {
	trimmed := strings.TrimSpace(phone)
	num, err := phonenumbers.Parse(trimmed, e.phoneRegion)
	if err != nil {
		return trimmed
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// nextVPLID picks the smallest positive integer whose VPL-NNN form is not in
// use. Numbers freed by deleted players are reused; that is intentional.
func nextVPLID(existing []string) string {
	used := make(map[int]bool, len(existing))
	for _, id := range existing {
		suffix, ok := strings.CutPrefix(id, vplIDPrefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil || n <= 0 {
			continue
		}
		used[n] = true
	}

	next := 1
	for used[next] {
		next++
	}
	return fmt.Sprintf("%s%03d", vplIDPrefix, next)
}
