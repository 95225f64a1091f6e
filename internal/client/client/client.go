package client

import (
	"context"

	"github.com/dmitrijs2005/credebt/internal/client/auth"
	"github.com/dmitrijs2005/credebt/internal/client/models"
)

type Client interface {
	Login(ctx context.Context, identifier, password string) (auth.Tokens, error)
	Register(ctx context.Context, in models.RegisterRequest) (auth.Tokens, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error

	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id models.ID) (models.User, error)
	UpdateUser(ctx context.Context, id models.ID, in models.ProfileUpdate) (models.User, error)
	SearchUsersByPhone(ctx context.Context, phone string) ([]models.User, error)
	RecentUsers(ctx context.Context, id models.ID) ([]models.User, error)
	TouchRecentUser(ctx context.Context, id, contact models.ID) error

	ListBooklets(ctx context.Context) ([]models.Booklet, error)
	GetBooklet(ctx context.Context, id models.ID) (models.Booklet, error)
	CreateBooklet(ctx context.Context, in models.BookletInput) (models.Booklet, error)
	UpdateBooklet(ctx context.Context, id models.ID, in models.BookletInput) (models.Booklet, error)
	DeleteBooklet(ctx context.Context, id models.ID) error

	ListRecords(ctx context.Context, bookletID models.ID) ([]models.Record, error)
	AddRecord(ctx context.Context, bookletID models.ID, in models.RecordInput) error
	UpdateRecord(ctx context.Context, recordID models.ID, in models.RecordInput) error
	DeleteRecord(ctx context.Context, recordID models.ID) error

	CreateTransaction(ctx context.Context, in models.TransactionInput) error
	Conversation(ctx context.Context, a, b models.ID) ([]models.Transaction, error)
	Balance(ctx context.Context, a, b models.ID) (float64, error)
	RequestClear(ctx context.Context, in models.ClearRequestInput) error
	PendingClear(ctx context.Context, receiver, sender models.ID) (*models.ClearRequest, error)
	AcceptClear(ctx context.Context, receiver, sender models.ID) error
}
