package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/credebt/internal/client/client"
	"github.com/dmitrijs2005/credebt/internal/client/models"
	"github.com/dmitrijs2005/credebt/internal/client/summary"
	"github.com/dmitrijs2005/credebt/internal/common"
)

// RecentDays is the window of RecentSummary.
const RecentDays = 7

// LedgerService manages booklets and their income and expense records.
type LedgerService interface {
	Booklets(ctx context.Context) ([]models.Booklet, error)
	Booklet(ctx context.Context, id models.ID) (models.Booklet, error)
	CreateBooklet(ctx context.Context, name, description string) (models.Booklet, error)
	UpdateBooklet(ctx context.Context, id models.ID, name, description string) (models.Booklet, error)
	DeleteBooklet(ctx context.Context, id models.ID) error

	Records(ctx context.Context, bookletID models.ID) ([]models.Record, error)
	AddRecord(ctx context.Context, bookletID models.ID, in models.RecordInput) error
	UpdateRecord(ctx context.Context, recordID models.ID, in models.RecordInput) error
	DeleteRecord(ctx context.Context, recordID models.ID) error

	// MonthSummary totals the booklet for a calendar month.
	MonthSummary(ctx context.Context, bookletID models.ID, year int, month time.Month) (summary.Totals, error)
	// RecentSummary returns RecentDays daily totals, newest first.
	RecentSummary(ctx context.Context, bookletID models.ID) ([]summary.Day, error)
	Report(ctx context.Context, bookletID models.ID, p summary.Period) ([]summary.Bucket, error)
}

type ledgerService struct {
	client client.Client
	now    func() time.Time
	loc    *time.Location
}

func NewLedgerService(c client.Client) LedgerService {
	return &ledgerService{client: c, now: time.Now, loc: time.Local}
}

func (l *ledgerService) Booklets(ctx context.Context) ([]models.Booklet, error) {
	return l.client.ListBooklets(ctx)
}

func (l *ledgerService) Booklet(ctx context.Context, id models.ID) (models.Booklet, error) {
	if err := required("booklet id", string(id)); err != nil {
		return models.Booklet{}, err
	}
	return l.client.GetBooklet(ctx, id)
}

func bookletInput(name, description string) (models.BookletInput, error) {
	in := models.BookletInput{Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	return in, required("name", in.Name)
}

func (l *ledgerService) CreateBooklet(ctx context.Context, name, description string) (models.Booklet, error) {
	in, err := bookletInput(name, description)
	if err != nil {
		return models.Booklet{}, err
	}
	return l.client.CreateBooklet(ctx, in)
}

func (l *ledgerService) UpdateBooklet(ctx context.Context, id models.ID, name, description string) (models.Booklet, error) {
	if err := required("booklet id", string(id)); err != nil {
		return models.Booklet{}, err
	}
	in, err := bookletInput(name, description)
	if err != nil {
		return models.Booklet{}, err
	}
	return l.client.UpdateBooklet(ctx, id, in)
}

func (l *ledgerService) DeleteBooklet(ctx context.Context, id models.ID) error {
	if err := required("booklet id", string(id)); err != nil {
		return err
	}
	return l.client.DeleteBooklet(ctx, id)
}

func (l *ledgerService) Records(ctx context.Context, bookletID models.ID) ([]models.Record, error) {
	if err := required("booklet id", string(bookletID)); err != nil {
		return nil, err
	}
	return l.client.ListRecords(ctx, bookletID)
}

func checkRecord(in *models.RecordInput) error {
	in.Type = models.RecordType(strings.ToLower(strings.TrimSpace(string(in.Type))))
	in.Description = strings.TrimSpace(in.Description)
	if !in.Type.Valid() {
		return fmt.Errorf("%w: type must be %q or %q", common.ErrValidation, models.Income, models.Expense)
	}
	return positive("amount", in.Amount)
}

func (l *ledgerService) AddRecord(ctx context.Context, bookletID models.ID, in models.RecordInput) error {
	if err := required("booklet id", string(bookletID)); err != nil {
		return err
	}
	if err := checkRecord(&in); err != nil {
		return err
	}
	return l.client.AddRecord(ctx, bookletID, in)
}

func (l *ledgerService) UpdateRecord(ctx context.Context, recordID models.ID, in models.RecordInput) error {
	if err := required("record id", string(recordID)); err != nil {
		return err
	}
	if err := checkRecord(&in); err != nil {
		return err
	}
	return l.client.UpdateRecord(ctx, recordID, in)
}

func (l *ledgerService) DeleteRecord(ctx context.Context, recordID models.ID) error {
	if err := required("record id", string(recordID)); err != nil {
		return err
	}
	return l.client.DeleteRecord(ctx, recordID)
}

func (l *ledgerService) MonthSummary(ctx context.Context, bookletID models.ID, year int, month time.Month) (summary.Totals, error) {
	if month < time.January || month > time.December {
		return summary.Totals{}, fmt.Errorf("%w: month %d out of range", common.ErrValidation, month)
	}
	records, err := l.Records(ctx, bookletID)
	if err != nil {
		return summary.Totals{}, err
	}
	return summary.Month(records, year, month, l.loc), nil
}

func (l *ledgerService) RecentSummary(ctx context.Context, bookletID models.ID) ([]summary.Day, error) {
	records, err := l.Records(ctx, bookletID)
	if err != nil {
		return nil, err
	}
	return summary.LastDays(records, l.now().In(l.loc), RecentDays), nil
}

func (l *ledgerService) Report(ctx context.Context, bookletID models.ID, p summary.Period) ([]summary.Bucket, error) {
	records, err := l.Records(ctx, bookletID)
	if err != nil {
		return nil, err
	}
	return summary.Group(records, p, l.loc), nil
}
