// Package storage implements the repository over a Firebase-style JSON
// document store. The store offers per-key GET/PUT/PATCH only; there are no
// cross-key transactions, so every coordination invariant here is built from
// those primitives.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bishalghimire/merotopup-backend/internal/store"
	"github.com/bishalghimire/merotopup-backend/internal/types/game"
	"github.com/bishalghimire/merotopup-backend/internal/types/order"
	"github.com/bishalghimire/merotopup-backend/internal/types/user"
)

const (
	usersPath   = "users"
	ordersPath  = "Orders"
	counterPath = "orderCounter"
	gamesPath   = "Games"

	// Bound on lost CAS races before giving up on an allocation.
	seqAttempts = 8
)

// ErrSeqContention is returned when the counter keeps moving under us for
// seqAttempts straight reads.
var ErrSeqContention = errors.New("order counter contention")

type FirebaseStorage struct {
	client *store.Client
}

func NewFirebaseStorage(client *store.Client) *FirebaseStorage {
	return &FirebaseStorage{client: client}
}

func (s *FirebaseStorage) Ping(ctx context.Context) error {
	return s.client.Get(ctx, counterPath, nil)
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// newUserID combines a millisecond timestamp with random entropy so that
// concurrent registrations cannot land on the same key.
func newUserID() string {
	var sb strings.Builder
	sb.WriteString("u_")
	sb.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 10))
	for i := 0; i < 5; i++ {
		sb.WriteByte(base36[rand.Intn(len(base36))])
	}
	return sb.String()
}

// CreateUser persists u under a fresh key unless one is already assigned.
// The write is a full-document replace, so replaying the same create after a
// doubtful network result converges on the same final state.
func (s *FirebaseStorage) CreateUser(ctx context.Context, u *user.User) error {
	if u.UserID == "" {
		u.UserID = newUserID()
	}
	u.TotalOrders = 0
	u.TotalSpent = 0
	if u.CreatedAt == 0 {
		u.CreatedAt = time.Now().UnixMilli()
	}
	if err := s.client.Put(ctx, usersPath+"/"+u.UserID, u); err != nil {
		return fmt.Errorf("create user %s: %w", u.UserID, err)
	}
	return nil
}

// FindUserByEmail scans the whole collection; the store cannot index by
// email. Linear in total users, acceptable at this store's scale.
func (s *FirebaseStorage) FindUserByEmail(ctx context.Context, email string) (*user.User, error) {
	var users map[string]user.User
	if err := s.client.Get(ctx, usersPath, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for id, u := range users {
		if strings.EqualFold(u.Email, email) {
			u.UserID = id
			return &u, nil
		}
	}
	return nil, nil
}

func (s *FirebaseStorage) FindUserByID(ctx context.Context, userID string) (*user.User, error) {
	var u *user.User
	if err := s.client.Get(ctx, usersPath+"/"+userID, &u); err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	if u == nil {
		return nil, nil
	}
	u.UserID = userID
	return u, nil
}

// PatchUserStats merge-patches exactly the two aggregate fields, leaving the
// rest of the user document alone.
func (s *FirebaseStorage) PatchUserStats(ctx context.Context, userID string, totalOrders, totalSpent int) error {
	patch := map[string]int{
		"totalOrders": totalOrders,
		"totalSpent":  totalSpent,
	}
	if err := s.client.Patch(ctx, usersPath+"/"+userID, patch); err != nil {
		return fmt.Errorf("patch stats for %s: %w", userID, err)
	}
	return nil
}

// NextOrderSeq advances the shared counter with an ETag compare-and-swap
// loop: read value+tag, write value+1 only if the tag still matches, re-read
// on conflict. Two racing callers can never be handed the same number; at
// worst a crashed caller burns a number, which shows up as a gap.
func (s *FirebaseStorage) NextOrderSeq(ctx context.Context) (int64, error) {
	for attempt := 0; attempt < seqAttempts; attempt++ {
		var current int64
		etag, err := s.client.GetWithETag(ctx, counterPath, &current)
		if err != nil {
			return 0, fmt.Errorf("read order counter: %w", err)
		}
		next := current + 1
		err = s.client.PutIfMatch(ctx, counterPath, etag, next)
		if err == nil {
			return next, nil
		}
		if errors.Is(err, store.ErrConflict) {
			continue
		}
		return 0, fmt.Errorf("advance order counter: %w", err)
	}
	return 0, ErrSeqContention
}

func (s *FirebaseStorage) PutOrder(ctx context.Context, o *order.Order) error {
	if err := s.client.Put(ctx, ordersPath+"/"+o.OrderID, o); err != nil {
		return fmt.Errorf("put order %s: %w", o.OrderID, err)
	}
	return nil
}

// ListOrdersByUser fetches the collection fresh on every call, drops
// bookkeeping entries that are not order documents, and returns the user's
// orders newest first.
func (s *FirebaseStorage) ListOrdersByUser(ctx context.Context, userID string) ([]order.Order, error) {
	var raw map[string]json.RawMessage
	if err := s.client.Get(ctx, ordersPath, &raw); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	var out []order.Order
	for id, doc := range raw {
		var o order.Order
		if err := json.Unmarshal(doc, &o); err != nil {
			continue
		}
		if o.CustomerID == "" || o.CustomerID != userID {
			continue
		}
		o.OrderID = id
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

func (s *FirebaseStorage) Games(ctx context.Context) (map[string]game.Game, error) {
	var games map[string]game.Game
	if err := s.client.Get(ctx, gamesPath, &games); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	for id, g := range games {
		if g.GameID == "" {
			g.GameID = id
			games[id] = g
		}
	}
	return games, nil
}
