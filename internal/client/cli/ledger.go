package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credebt/internal/client/models"
	"github.com/dmitrijs2005/credebt/internal/client/summary"
)

// nowFn is a test seam for the default summary month.
var nowFn = time.Now

func (a *App) booklets(ctx context.Context, _ []string) error {
	bs, err := a.ledgerService.Booklets(ctx)
	if err != nil {
		return err
	}
	if len(bs) == 0 {
		fmt.Fprintln(a.out, "No booklets yet, create one with 'newbooklet'")
		return nil
	}
	for _, b := range bs {
		fmt.Fprintf(a.out, "%s  %s", b.ID, b.Name)
		if b.Description != "" {
			fmt.Fprintf(a.out, " - %s", b.Description)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

func (a *App) newBooklet(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.reader, "Enter booklet name", a.out)
	if err != nil {
		return err
	}
	desc, err := GetMultiline(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}
	b, err := a.ledgerService.CreateBooklet(ctx, name, desc)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created booklet %s\n", b.ID)
	return nil
}

func (a *App) renameBooklet(ctx context.Context, args []string) error {
	id := models.ID(args[0])
	b, err := a.ledgerService.Booklet(ctx, id)
	if err != nil {
		return err
	}
	name, err := GetTextOr(a.reader, "Name", b.Name, a.out)
	if err != nil {
		return err
	}
	desc, err := GetTextOr(a.reader, "Description", b.Description, a.out)
	if err != nil {
		return err
	}
	if _, err := a.ledgerService.UpdateBooklet(ctx, id, name, desc); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Booklet updated")
	return nil
}

func (a *App) deleteBooklet(ctx context.Context, args []string) error {
	if err := a.ledgerService.DeleteBooklet(ctx, models.ID(args[0])); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Booklet deleted")
	return nil
}

func (a *App) records(ctx context.Context, args []string) error {
	rs, err := a.ledgerService.Records(ctx, models.ID(args[0]))
	if err != nil {
		return err
	}
	if len(rs) == 0 {
		fmt.Fprintln(a.out, "No records")
		return nil
	}
	for _, r := range rs {
		sign := "-"
		if r.Type == models.Income {
			sign = "+"
		}
		fmt.Fprintf(a.out, "%s  %s%s  %s  %s\n", r.ID, sign, money(r.Amount), r.Description, when(r.When()))
	}
	fmt.Fprintln(a.out, formatTotals(summary.Total(rs)))
	return nil
}

func (a *App) readRecord(def models.RecordInput) (models.RecordInput, error) {
	t, err := GetTextOr(a.reader, "Type (income/expense)", string(def.Type), a.out)
	if err != nil {
		return def, err
	}
	amount, err := GetAmount(a.reader, "Amount", def.Amount, a.out)
	if err != nil {
		return def, err
	}
	desc, err := GetTextOr(a.reader, "Description", def.Description, a.out)
	if err != nil {
		return def, err
	}
	return models.RecordInput{Type: models.RecordType(t), Amount: amount, Description: desc}, nil
}

func (a *App) addRecord(ctx context.Context, args []string) error {
	in, err := a.readRecord(models.RecordInput{})
	if err != nil {
		return err
	}
	if err := a.ledgerService.AddRecord(ctx, models.ID(args[0]), in); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Record added")
	return nil
}

// editRecord prefills the prompts with the record's current values.
func (a *App) editRecord(ctx context.Context, args []string) error {
	bookletID, recordID := models.ID(args[0]), models.ID(args[1])
	rs, err := a.ledgerService.Records(ctx, bookletID)
	if err != nil {
		return err
	}

	var def models.RecordInput
	found := false
	for _, r := range rs {
		if r.ID == recordID {
			def = models.RecordInput{Type: r.Type, Amount: r.Amount, Description: r.Description}
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("record %s not found in booklet %s", recordID, bookletID)
	}

	in, err := a.readRecord(def)
	if err != nil {
		return err
	}
	if err := a.ledgerService.UpdateRecord(ctx, recordID, in); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Record updated")
	return nil
}

func (a *App) deleteRecord(ctx context.Context, args []string) error {
	if err := a.ledgerService.DeleteRecord(ctx, models.ID(args[0])); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Record deleted")
	return nil
}

func (a *App) summary(ctx context.Context, args []string) error {
	now := nowFn()
	year, month := now.Year(), now.Month()
	if len(args) > 1 {
		t, err := time.Parse("2006-01", args[1])
		if err != nil {
			return fmt.Errorf("invalid month %q, want YYYY-MM", args[1])
		}
		year, month = t.Year(), t.Month()
	}

	tot, err := a.ledgerService.MonthSummary(ctx, models.ID(args[0]), year, month)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%04d-%02d  %s\n", year, int(month), formatTotals(tot))
	return nil
}

func (a *App) recent(ctx context.Context, args []string) error {
	days, err := a.ledgerService.RecentSummary(ctx, models.ID(args[0]))
	if err != nil {
		return err
	}
	for _, d := range days {
		fmt.Fprintf(a.out, "%s  %s\n", d.Date, formatTotals(d.Totals))
	}
	return nil
}

func (a *App) report(ctx context.Context, args []string) error {
	p, err := summary.ParsePeriod(args[1])
	if err != nil {
		return err
	}
	buckets, err := a.ledgerService.Report(ctx, models.ID(args[0]), p)
	if err != nil {
		return err
	}
	if len(buckets) == 0 {
		fmt.Fprintln(a.out, "No records")
		return nil
	}
	for _, b := range buckets {
		fmt.Fprintf(a.out, "%-10s  %s\n", b.Key, formatTotals(b.Totals))
	}
	return nil
}

func formatTotals(t summary.Totals) string {
	return fmt.Sprintf("income %s  expense %s  net %s", money(t.Income), money(t.Expense), money(t.Net))
}
