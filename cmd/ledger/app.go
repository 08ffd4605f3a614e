package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/config"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/ledger"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/remote"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Exit codes
const (
	exitOK              = 0
	exitError           = 1
	exitUnauthenticated = 2
)

const usage = `usage: ledger <command> [flags]

commands:
  register -name NAME -email EMAIL -password PASSWORD
  login    -email EMAIL -password PASSWORD
  logout
  list
  add      -text TEXT -amount AMOUNT -type Income|Expense -date YYYY-MM-DD
  delete   -id ID [-yes]
  summary
  watch
`

// app wires the CLI to the ledger API through the sync service
type app struct {
	client *remote.Client
	events *remote.Subscriber
	guard  *session.Guard
	sync   *service.SyncService

	stdin  *bufio.Reader
	stdout io.Writer
}

func newApp(cfg *config.ClientConfig, stdin io.Reader, stdout io.Writer) (*app, error) {
	client, err := remote.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_API_URL: %w", err)
	}
	events, err := remote.NewSubscriber(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_API_URL: %w", err)
	}

	guard := session.NewGuard(session.WithStore(session.NewFileTokenStore(cfg.TokenFile)))

	return &app{
		client: client,
		events: events,
		guard:  guard,
		sync:   service.NewSyncService(client, guard, ledger.NewStore()),
		stdin:  bufio.NewReader(stdin),
		stdout: stdout,
	}, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitError
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(stderr, "ledger: %v\n", err)
		return exitError
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(cfg.LogLevel).With().Timestamp().Logger()

	a, err := newApp(cfg, stdin, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "ledger: %v\n", err)
		return exitError
	}

	return report(stderr, a.dispatch(ctx, args[0], args[1:]))
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout()
	case "list":
		return a.list(ctx)
	case "add":
		return a.add(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "summary":
		return a.summary(ctx)
	case "watch":
		return a.watch(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.stdout, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q\n\n%s", command, usage)
}

func report(stderr io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, domain.ErrUnauthenticated) {
		fmt.Fprintln(stderr, "ledger: not signed in or the session expired; run `ledger login`")
		return exitUnauthenticated
	}
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		fmt.Fprintf(stderr, "ledger: %s: %s\n", validation.Field, validation.Reason)
		return exitError
	}
	fmt.Fprintf(stderr, "ledger: %v\n", err)
	return exitError
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.client.Register(ctx, *name, *email, *password)
	if err != nil {
		return err
	}
	if err := a.guard.Set(resp.Token); err != nil {
		return fmt.Errorf("registered but the token could not be stored: %w", err)
	}
	fmt.Fprintf(a.stdout, "Registered and signed in as %s\n", resp.User.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.guard.Set(resp.Token); err != nil {
		return fmt.Errorf("signed in but the token could not be stored: %w", err)
	}
	fmt.Fprintf(a.stdout, "Signed in as %s\n", resp.User.Email)
	return nil
}

func (a *app) logout() error {
	a.guard.Invalidate()
	fmt.Fprintln(a.stdout, "Signed out")
	return nil
}

func (a *app) list(ctx context.Context) error {
	if err := a.sync.Load(ctx); err != nil {
		return err
	}
	printTransactions(a.stdout, a.sync.Snapshot().Transactions)
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := newFlagSet("add")
	text := fs.String("text", "", "description")
	amount := fs.String("amount", "", "positive amount")
	txType := fs.String("type", "", "Income or Expense")
	date := fs.String("date", "", "date as YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}

	created, err := a.sync.Create(ctx, domain.Draft{
		Text:   *text,
		Amount: *amount,
		Type:   *txType,
		Date:   *date,
	})
	if created != nil {
		fmt.Fprintf(a.stdout, "Added transaction %s\n", created.ID)
	}
	return err
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := newFlagSet("delete")
	id := fs.String("id", "", "transaction id")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*yes && strings.TrimSpace(*id) != "" && !a.confirm(fmt.Sprintf("Delete transaction %s?", *id)) {
		fmt.Fprintln(a.stdout, "Cancelled")
		return nil
	}

	if err := a.sync.Delete(ctx, domain.TransactionID(strings.TrimSpace(*id))); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Deleted transaction %s\n", *id)
	return nil
}

func (a *app) summary(ctx context.Context) error {
	if err := a.sync.Load(ctx); err != nil {
		return err
	}
	printSummary(a.stdout, a.sync.Summary())
	return nil
}

func (a *app) watch(ctx context.Context) error {
	if err := a.sync.Load(ctx); err != nil {
		return err
	}
	printSummary(a.stdout, a.sync.Summary())

	return a.sync.Watch(ctx, a.events, func(l domain.Ledger) {
		fmt.Fprintln(a.stdout)
		printSummary(a.stdout, domain.Summary{Buckets: l.Buckets, Totals: l.Totals})
	})
}

func (a *app) confirm(prompt string) bool {
	fmt.Fprintf(a.stdout, "%s [y/N] ", prompt)
	answer, _ := a.stdin.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func printTransactions(w io.Writer, transactions []domain.Transaction) {
	if len(transactions) == 0 {
		fmt.Fprintln(w, "No transactions")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tAMOUNT\tTEXT")
	for _, tx := range transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", tx.ID, tx.Date, tx.Type, tx.Amount.String(), tx.Text)
	}
	tw.Flush()
}

func printSummary(w io.Writer, summary domain.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSE\t")
	for _, b := range summary.Buckets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", b.Month, b.Income.String(), b.Expense.String())
	}
	fmt.Fprintf(tw, "Total\t%s\t%s\t\n", summary.Totals.TotalIncome.String(), summary.Totals.TotalExpense.String())
	tw.Flush()
	fmt.Fprintf(w, "Balance: %s\n", summary.Totals.Balance.String())
}
