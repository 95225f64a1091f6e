package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/credebt/internal/client/auth"
	"github.com/dmitrijs2005/credebt/internal/client/client"
	"github.com/dmitrijs2005/credebt/internal/client/models"
	"github.com/dmitrijs2005/credebt/internal/client/tokenstore"
)

func mintToken(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

type noRefresh struct{}

func (noRefresh) Refresh(context.Context, string) (auth.Tokens, error) {
	return auth.Tokens{}, auth.ErrRefreshRejected
}

// newSession returns a session logged in as sub, or logged out when sub is
// empty.
func newSession(t *testing.T, sub string) (*auth.Session, *tokenstore.Memory) {
	t.Helper()
	store := tokenstore.NewMemory()
	s := auth.NewSession(store, noRefresh{})
	t.Cleanup(s.Close)
	if sub != "" {
		require.NoError(t, s.SetTokens(context.Background(), auth.Tokens{
			AccessToken:  mintToken(t, sub),
			RefreshToken: "rt-" + sub,
		}))
	}
	return s, store
}

// fakeClient serves canned data. Methods a test does not expect panic
// through the nil embedded interface.
type fakeClient struct {
	client.Client

	mu    sync.Mutex
	calls []string

	tokens   auth.Tokens
	loginErr error
	lastReg  models.RegisterRequest
	lastPass string

	users      []models.User
	recent     []models.User
	touched    [2]models.ID
	updateUser models.ProfileUpdate

	booklets   []models.Booklet
	records    []models.Record
	recordsErr error
	lastRecord models.RecordInput
	lastBook   models.BookletInput

	txs        []models.Transaction
	balance    float64
	balanceErr error
	pending    *models.ClearRequest
	pendingErr error
	sent       *models.TransactionInput
	clearReq   *models.ClearRequestInput
	accepted   [2]models.ID
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeClient) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Login(_ context.Context, id, password string) (auth.Tokens, error) {
	f.record("Login " + id)
	f.lastPass = password
	return f.tokens, f.loginErr
}

func (f *fakeClient) Register(_ context.Context, in models.RegisterRequest) (auth.Tokens, error) {
	f.record("Register")
	f.lastReg = in
	return f.tokens, nil
}

func (f *fakeClient) ForgotPassword(_ context.Context, email string) error {
	f.record("Forgot " + email)
	return nil
}

func (f *fakeClient) ResetPassword(_ context.Context, token, password string) error {
	f.record("Reset " + token)
	f.lastPass = password
	return nil
}

func (f *fakeClient) ListUsers(context.Context) ([]models.User, error) {
	f.record("ListUsers")
	return f.users, nil
}

func (f *fakeClient) GetUser(_ context.Context, id models.ID) (models.User, error) {
	f.record("GetUser " + string(id))
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, client.ErrNotFound
}

func (f *fakeClient) UpdateUser(_ context.Context, id models.ID, in models.ProfileUpdate) (models.User, error) {
	f.record("UpdateUser " + string(id))
	f.updateUser = in
	return models.User{ID: id, FirstName: in.FirstName, LastName: in.LastName}, nil
}

func (f *fakeClient) SearchUsersByPhone(_ context.Context, phone string) ([]models.User, error) {
	f.record("Search " + phone)
	return f.users, nil
}

func (f *fakeClient) RecentUsers(_ context.Context, id models.ID) ([]models.User, error) {
	f.record("RecentUsers " + string(id))
	return f.recent, nil
}

func (f *fakeClient) TouchRecentUser(_ context.Context, id, contact models.ID) error {
	f.record("Touch")
	f.touched = [2]models.ID{id, contact}
	return nil
}

func (f *fakeClient) ListBooklets(context.Context) ([]models.Booklet, error) {
	f.record("ListBooklets")
	return f.booklets, nil
}

func (f *fakeClient) GetBooklet(_ context.Context, id models.ID) (models.Booklet, error) {
	f.record("GetBooklet " + string(id))
	return models.Booklet{ID: id}, nil
}

func (f *fakeClient) CreateBooklet(_ context.Context, in models.BookletInput) (models.Booklet, error) {
	f.record("CreateBooklet")
	f.lastBook = in
	return models.Booklet{ID: "b-new", Name: in.Name, Description: in.Description}, nil
}

func (f *fakeClient) UpdateBooklet(_ context.Context, id models.ID, in models.BookletInput) (models.Booklet, error) {
	f.record("UpdateBooklet " + string(id))
	f.lastBook = in
	return models.Booklet{ID: id, Name: in.Name, Description: in.Description}, nil
}

func (f *fakeClient) DeleteBooklet(_ context.Context, id models.ID) error {
	f.record("DeleteBooklet " + string(id))
	return nil
}

func (f *fakeClient) ListRecords(_ context.Context, id models.ID) ([]models.Record, error) {
	f.record("ListRecords " + string(id))
	return f.records, f.recordsErr
}

func (f *fakeClient) AddRecord(_ context.Context, id models.ID, in models.RecordInput) error {
	f.record("AddRecord " + string(id))
	f.lastRecord = in
	return nil
}

func (f *fakeClient) UpdateRecord(_ context.Context, id models.ID, in models.RecordInput) error {
	f.record("UpdateRecord " + string(id))
	f.lastRecord = in
	return nil
}

func (f *fakeClient) DeleteRecord(_ context.Context, id models.ID) error {
	f.record("DeleteRecord " + string(id))
	return nil
}

func (f *fakeClient) CreateTransaction(_ context.Context, in models.TransactionInput) error {
	f.record("CreateTransaction")
	f.sent = &in
	return nil
}

func (f *fakeClient) Conversation(_ context.Context, a, b models.ID) ([]models.Transaction, error) {
	f.record("Conversation")
	return f.txs, nil
}

func (f *fakeClient) Balance(_ context.Context, a, b models.ID) (float64, error) {
	f.record("Balance")
	return f.balance, f.balanceErr
}

func (f *fakeClient) RequestClear(_ context.Context, in models.ClearRequestInput) error {
	f.record("RequestClear")
	f.clearReq = &in
	return nil
}

func (f *fakeClient) PendingClear(_ context.Context, receiver, sender models.ID) (*models.ClearRequest, error) {
	f.record("PendingClear")
	return f.pending, f.pendingErr
}

func (f *fakeClient) AcceptClear(_ context.Context, receiver, sender models.ID) error {
	f.record("AcceptClear")
	f.accepted = [2]models.ID{receiver, sender}
	return nil
}
