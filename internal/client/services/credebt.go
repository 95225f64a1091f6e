package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/credebt/internal/client/client"
	"github.com/dmitrijs2005/credebt/internal/client/models"
	"github.com/dmitrijs2005/credebt/internal/common"
)

// PeerView is everything shown for a conversation with one peer.
type PeerView struct {
	Peer         models.User
	Transactions []models.Transaction
	// Balance is positive when the peer owes the current user.
	Balance float64
	// Pending is the open clear request the peer sent, if any.
	Pending   *models.ClearRequest
	CanAccept bool
}

// CanRequestClear reports whether the current user may ask the peer to
// settle.
func (v PeerView) CanRequestClear() bool { return v.Balance > 0 }

// CredebtService covers peer-to-peer debts: contacts, transactions and
// clear requests. Every method acts on behalf of the logged-in user.
type CredebtService interface {
	Users(ctx context.Context) ([]models.User, error)
	SearchByPhone(ctx context.Context, phone string) ([]models.User, error)
	Recent(ctx context.Context) ([]models.User, error)
	Select(ctx context.Context, peerID models.ID) error

	Peer(ctx context.Context, peerID models.ID) (PeerView, error)
	Send(ctx context.Context, peerID models.ID, amount float64, message string) error
	RequestClear(ctx context.Context, peerID models.ID, amount float64) error
	AcceptClear(ctx context.Context, peerID models.ID) error
}

type credebtService struct {
	client  client.Client
	session Session
}

func NewCredebtService(c client.Client, s Session) CredebtService {
	return &credebtService{client: c, session: s}
}

func excludeUser(users []models.User, id models.ID) []models.User {
	out := users[:0:0]
	for _, u := range users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}

func (c *credebtService) Users(ctx context.Context) ([]models.User, error) {
	me, err := currentUser(c.session)
	if err != nil {
		return nil, err
	}
	users, err := c.client.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return excludeUser(users, me), nil
}

func (c *credebtService) SearchByPhone(ctx context.Context, phone string) ([]models.User, error) {
	me, err := currentUser(c.session)
	if err != nil {
		return nil, err
	}
	phone = strings.TrimSpace(phone)
	if err := required("phone", phone); err != nil {
		return nil, err
	}
	users, err := c.client.SearchUsersByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return excludeUser(users, me), nil
}

// Recent returns the recently contacted users, most recent first.
func (c *credebtService) Recent(ctx context.Context) ([]models.User, error) {
	me, err := currentUser(c.session)
	if err != nil {
		return nil, err
	}
	users, err := c.client.RecentUsers(ctx, me)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].UpdatedAt.After(users[j].UpdatedAt.Time)
	})
	return users, nil
}

// Select marks peerID as a recent contact.
func (c *credebtService) Select(ctx context.Context, peerID models.ID) error {
	me, err := c.peer(peerID)
	if err != nil {
		return err
	}
	return c.client.TouchRecentUser(ctx, me, peerID)
}

// peer validates peerID and returns the current user id.
func (c *credebtService) peer(peerID models.ID) (models.ID, error) {
	me, err := currentUser(c.session)
	if err != nil {
		return "", err
	}
	if err := required("user id", string(peerID)); err != nil {
		return "", err
	}
	if peerID == me {
		return "", fmt.Errorf("%w: cannot deal with yourself", common.ErrValidation)
	}
	return me, nil
}

// Peer loads the conversation, balance, profile and pending clear request
// concurrently. A failure to load the pending request only hides it unless
// the session is gone.
func (c *credebtService) Peer(ctx context.Context, peerID models.ID) (PeerView, error) {
	me, err := c.peer(peerID)
	if err != nil {
		return PeerView{}, err
	}

	var v PeerView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := c.client.Conversation(gctx, me, peerID)
		v.Transactions = txs
		return err
	})
	g.Go(func() error {
		b, err := c.client.Balance(gctx, me, peerID)
		v.Balance = b
		return err
	})
	g.Go(func() error {
		u, err := c.client.GetUser(gctx, peerID)
		v.Peer = u
		return err
	})
	g.Go(func() error {
		p, err := c.client.PendingClear(gctx, me, peerID)
		if err != nil {
			if errors.Is(err, client.ErrUnauthorized) {
				return err
			}
			return nil
		}
		v.Pending = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return PeerView{}, err
	}

	if v.Pending != nil && !v.Pending.Pending() {
		v.Pending = nil
	}
	v.CanAccept = v.Pending != nil && (v.Pending.ToUser == "" || v.Pending.ToUser == me)
	return v, nil
}

func (c *credebtService) Send(ctx context.Context, peerID models.ID, amount float64, message string) error {
	me, err := c.peer(peerID)
	if err != nil {
		return err
	}
	if err := positive("amount", amount); err != nil {
		return err
	}
	return c.client.CreateTransaction(ctx, models.TransactionInput{
		From:    me,
		To:      peerID,
		Amount:  amount,
		Message: strings.TrimSpace(message),
	})
}

// RequestClear asks the peer to settle up to the current balance.
func (c *credebtService) RequestClear(ctx context.Context, peerID models.ID, amount float64) error {
	me, err := c.peer(peerID)
	if err != nil {
		return err
	}
	if err := positive("amount", amount); err != nil {
		return err
	}

	balance, err := c.client.Balance(ctx, me, peerID)
	if err != nil {
		return err
	}
	if balance <= 0 {
		return fmt.Errorf("%w: %s owes you nothing", common.ErrValidation, peerID)
	}
	if amount > balance {
		return fmt.Errorf("%w: amount exceeds balance %.2f", common.ErrValidation, balance)
	}
	return c.client.RequestClear(ctx, models.ClearRequestInput{FromUser: me, ToUser: peerID, Amount: amount})
}

// AcceptClear accepts the pending clear request peerID sent.
func (c *credebtService) AcceptClear(ctx context.Context, peerID models.ID) error {
	me, err := c.peer(peerID)
	if err != nil {
		return err
	}

	p, err := c.client.PendingClear(ctx, me, peerID)
	if err != nil {
		return err
	}
	if p == nil || !p.Pending() {
		return fmt.Errorf("no pending clear request from %s: %w", peerID, client.ErrNotFound)
	}
	if p.ToUser != "" && p.ToUser != me {
		return fmt.Errorf("%w: clear request is not addressed to you", common.ErrValidation)
	}
	return c.client.AcceptClear(ctx, me, peerID)
}
