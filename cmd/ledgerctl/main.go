// ledgerctl inspects a Badger-backed ledger from the command line.
// The server must not hold the store open while it runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/SscSPs/group_ledger/internal/core/domain"
	"github.com/SscSPs/group_ledger/internal/core/services"
	"github.com/SscSPs/group_ledger/internal/dto"
	"github.com/SscSPs/group_ledger/internal/platform/config"
	"github.com/SscSPs/group_ledger/internal/repositories/database/badgerdb"
	"github.com/SscSPs/group_ledger/internal/utils"
	"github.com/SscSPs/group_ledger/pkg/database"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

const usage = `usage: ledgerctl <command> [flags]

commands:
  balances  -group ID [-as-of RFC3339]   net balance per participant
  suggest   -group ID [-as-of RFC3339]   payments that would settle the group
  history   -group ID [-limit N]         ledger entries in order
  summary   -group ID                    totals for the group
  token     -caller ID [-ttl 24h]        sign an API token for a caller
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error while loading config: ", err)
	}

	cmd, args := os.Args[1], os.Args[2:]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	dbPath := fs.String("db", cfg.BadgerPath, "Path to badger DB")
	groupID := fs.String("group", "", "Group ID")
	asOf := fs.String("as-of", "", "RFC3339 time, defaults to now")
	limit := fs.Int("limit", 50, "Maximum entries to print")
	callerID := fs.String("caller", "", "Caller ID for the token subject")
	ttl := fs.Duration("ttl", 24*time.Hour, "Token lifetime")
	_ = fs.Parse(args)

	if cmd == "token" {
		if *callerID == "" {
			log.Fatal("-caller is required")
		}
		token, err := utils.GenerateJWT(*callerID, cfg.JWTSecret, *ttl, cfg.JWTIssuer)
		if err != nil {
			log.Fatal("Error while signing token: ", err)
		}
		fmt.Println(token)
		return
	}

	if *groupID == "" {
		log.Fatal("-group is required")
	}
	at, err := parseAsOf(*asOf)
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.NewBadgerDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer database.CloseBadgerDB(db)

	svc := services.NewServiceContainer(cfg, badgerdb.NewRepositoryProvider(db), nil)
	ctx := context.Background()

	switch cmd {
	case "balances":
		err = printBalances(svc.Query.GetBalances(ctx, *groupID, at))
	case "suggest":
		err = printSuggestions(svc.Query.GetSettlementSuggestions(ctx, *groupID, at))
	case "history":
		err = printHistory(svc.Query.GetHistory(ctx, *groupID, dto.ListEntriesParams{Limit: *limit}))
	case "summary":
		err = printSummary(svc.Balance.Summary(ctx, *groupID))
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -as-of %q: %w", s, err)
	}
	return t, nil
}

func newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	return table
}

func signed(amount decimal.Decimal, formatted string) string {
	switch {
	case amount.IsPositive():
		return color.Green.Render(formatted)
	case amount.IsNegative():
		return color.Red.Render(formatted)
	default:
		return formatted
	}
}

func printBalances(resp *dto.BalancesResponse, err error) error {
	if err != nil {
		return err
	}
	table := newTable("Participant", "Label", "Balance")
	for _, line := range resp.Balances {
		table.Append([]string{line.ParticipantID, line.Label, signed(line.Balance, line.Formatted)})
	}
	table.Render()
	status := color.Yellow.Render("open")
	if resp.Settled {
		status = color.Green.Render("settled")
	}
	fmt.Printf("\n%s as of %s (head %d): %s\n", resp.CurrencyCode, resp.AsOf.Format(time.RFC3339), resp.HeadSequence, status)
	return nil
}

func printSuggestions(resp *dto.SettlementSuggestionsResponse, err error) error {
	if err != nil {
		return err
	}
	if len(resp.Transfers) == 0 {
		fmt.Println(color.Green.Render("Nothing to settle."))
		return nil
	}
	table := newTable("From", "To", "Amount")
	for _, t := range resp.Transfers {
		table.Append([]string{t.FromLabel, t.ToLabel, utils.FormatWithCurrency(t.Amount, resp.CurrencyCode)})
	}
	table.Render()
	return nil
}

func printHistory(resp *dto.ListEntriesResponse, err error) error {
	if err != nil {
		return err
	}
	table := newTable("Seq", "Kind", "Occurred", "Payer", "Payee", "Amount", "Memo")
	for _, e := range resp.Entries {
		amount := ""
		if e.Amount != nil {
			amount = utils.FormatWithCurrency(*e.Amount, e.CurrencyCode)
		}
		memo := e.Memo
		if e.Kind == domain.EntryReversal {
			memo = fmt.Sprintf("reverses #%d %s", e.ReversedSequence, e.Reason)
		}
		table.Append([]string{
			strconv.FormatInt(e.Sequence, 10),
			string(e.Kind),
			e.OccurredAt.Format("2006-01-02 15:04"),
			e.PayerID,
			e.PayeeID,
			amount,
			memo,
		})
	}
	table.Render()
	if resp.NextToken != nil {
		fmt.Println(color.Gray.Render("more entries available, raise -limit"))
	}
	return nil
}

func printSummary(resp *dto.SummaryResponse, err error) error {
	if err != nil {
		return err
	}
	table := newTable("Metric", "Value")
	table.Append([]string{"Currency", resp.CurrencyCode})
	table.Append([]string{"Total expenses", utils.FormatWithCurrency(resp.TotalExpenses, resp.CurrencyCode)})
	table.Append([]string{"Total settlements", utils.FormatWithCurrency(resp.TotalSettlements, resp.CurrencyCode)})
	table.Append([]string{"Entries", strconv.Itoa(resp.EntryCount)})
	table.Append([]string{"Reversed", strconv.Itoa(resp.ReversedCount)})
	table.Append([]string{"Active participants", strconv.Itoa(resp.Participants)})
	table.Append([]string{"Head sequence", strconv.FormatInt(resp.HeadSequence, 10)})
	table.Render()
	return nil
}
