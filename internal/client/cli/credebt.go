package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/credebt/internal/client/models"
)

func (a *App) printUsers(users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users found")
		return
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "%s  %s", u.ID, u.Name())
		if u.Phone != "" {
			fmt.Fprintf(a.out, "  %s", u.Phone)
		}
		fmt.Fprintln(a.out)
	}
}

func (a *App) users(ctx context.Context, _ []string) error {
	users, err := a.credebtService.Users(ctx)
	if err != nil {
		return err
	}
	a.printUsers(users)
	return nil
}

func (a *App) search(ctx context.Context, args []string) error {
	users, err := a.credebtService.SearchByPhone(ctx, args[0])
	if err != nil {
		return err
	}
	a.printUsers(users)
	return nil
}

func (a *App) recentUsers(ctx context.Context, _ []string) error {
	users, err := a.credebtService.Recent(ctx)
	if err != nil {
		return err
	}
	a.printUsers(users)
	return nil
}

// peer shows the conversation with a user and marks them as a recent
// contact.
func (a *App) peer(ctx context.Context, args []string) error {
	id := models.ID(args[0])
	v, err := a.credebtService.Peer(ctx, id)
	if err != nil {
		return err
	}
	if err := a.credebtService.Select(ctx, id); err != nil {
		a.log.Debug(ctx, "mark recent contact", "peer", id, "error", err)
	}

	name := v.Peer.Name()
	if name == "" {
		name = string(id)
	}
	fmt.Fprintf(a.out, "Conversation with %s\n", name)
	if len(v.Transactions) == 0 {
		fmt.Fprintln(a.out, "  no transactions yet")
	}
	for _, t := range v.Transactions {
		dir := "->"
		if t.From == id {
			dir = "<-"
		}
		fmt.Fprintf(a.out, "  %s %s", dir, money(t.Amount))
		if t.Message != "" {
			fmt.Fprintf(a.out, "  %q", t.Message)
		}
		fmt.Fprintf(a.out, "  %s\n", when(t.CreatedAt.Time))
	}

	switch {
	case v.Balance > 0:
		fmt.Fprintf(a.out, "%s owes you %s\n", name, money(v.Balance))
	case v.Balance < 0:
		fmt.Fprintf(a.out, "You owe %s %s\n", name, money(-v.Balance))
	default:
		fmt.Fprintln(a.out, "You are settled up")
	}

	if v.Pending != nil {
		fmt.Fprintf(a.out, "Pending clear request for %s", money(v.Pending.Amount))
		if v.CanAccept {
			fmt.Fprintf(a.out, ", accept with 'accept %s'", id)
		}
		fmt.Fprintln(a.out)
	}
	if v.CanRequestClear() {
		fmt.Fprintf(a.out, "Ask to settle with 'clear %s <amount>'\n", id)
	}
	return nil
}

func (a *App) send(ctx context.Context, args []string) error {
	amount, err := GetAmount(a.reader, "Amount", 0, a.out)
	if err != nil {
		return err
	}
	msg, err := getSimpleText(a.reader, "Message", a.out)
	if err != nil {
		return err
	}
	if err := a.credebtService.Send(ctx, models.ID(args[0]), amount, msg); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Sent %s\n", money(amount))
	return nil
}

func (a *App) clear(ctx context.Context, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	if err := a.credebtService.RequestClear(ctx, models.ID(args[0]), amount); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Clear request for %s sent\n", money(amount))
	return nil
}

func (a *App) accept(ctx context.Context, args []string) error {
	if err := a.credebtService.AcceptClear(ctx, models.ID(args[0])); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Clear request accepted")
	return nil
}
