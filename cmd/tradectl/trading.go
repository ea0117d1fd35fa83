package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	tradesimv1 "github.com/simaogato/tradesim-backend/internal/adapter/grpc/tradesim/v1"
	"github.com/simaogato/tradesim-backend/internal/domain"
)

var (
	serverAddr = flag.String("addr", "localhost:8080", "TradeSim gRPC server address")
	apiToken   = flag.String("token", envOr("API_TOKEN", "dev-token"), "API token sent as authorization metadata")
	currency   = flag.String("currency", envOr("CURRENCY", domain.DefaultCurrency), "Currency used to format amounts")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// withClient dials the server and runs fn with an authorized context
func withClient(ctx context.Context, fn func(context.Context, tradesimv1.TradeSimServiceClient) error) subcommands.ExitStatus {
	conn, err := grpc.NewClient(*serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to %s: %v\n", *serverAddr, err)
		return subcommands.ExitFailure
	}
	defer conn.Close()

	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", *apiToken)
	if err := fn(ctx, tradesimv1.NewTradeSimServiceClient(conn)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// amount renders a wire decimal in the configured currency
func amount(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return domain.FormatAmount(d, *currency)
}

type openAccountCmd struct {
	name string
}

func (*openAccountCmd) Name() string     { return "open-account" }
func (*openAccountCmd) Synopsis() string { return "open a funded trading account" }
func (*openAccountCmd) Usage() string {
	return `open-account -name <name>

  Opens an account funded with the server's starting balance and prints its id.
`
}

func (c *openAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account holder name (required)")
}

func (c *openAccountCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -name is required")
		return subcommands.ExitUsageError
	}
	return withClient(ctx, func(ctx context.Context, client tradesimv1.TradeSimServiceClient) error {
		resp, err := client.OpenAccount(ctx, &tradesimv1.OpenAccountRequest{Name: c.name})
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\t%s\n", resp.Account.Id, resp.Account.Name, amount(resp.Account.CashBalance))
		return nil
	})
}

// buyCmd serves both buy and sell; side selects which
type buyCmd struct {
	side      string
	accountID string
	symbol    string
	quantity  int64
}

func (c *buyCmd) Name() string     { return c.side }
func (c *buyCmd) Synopsis() string { return c.side + " whole units of an instrument at the current price" }
func (c *buyCmd) Usage() string {
	return c.side + ` -a <account-id> -s <symbol> -q <quantity>

  Executes the order at the latest known price and prints the resulting balance.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.accountID, "a", "", "Account id (required)")
	f.StringVar(&c.symbol, "s", "", "Instrument symbol, e.g. TCS (required)")
	f.Int64Var(&c.quantity, "q", 0, "Number of units (required)")
}

func (c *buyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.accountID == "" || c.symbol == "" || c.quantity <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -a, -s and a positive -q are required")
		return subcommands.ExitUsageError
	}
	return withClient(ctx, func(ctx context.Context, client tradesimv1.TradeSimServiceClient) error {
		req := &tradesimv1.TradeRequest{AccountId: c.accountID, Symbol: c.symbol, Quantity: c.quantity}

		var resp *tradesimv1.TradeResponse
		var err error
		if c.side == "sell" {
			resp, err = client.Sell(ctx, req)
		} else {
			resp, err = client.Buy(ctx, req)
		}
		if err != nil {
			return err
		}

		tx := resp.Transaction
		fmt.Printf("%s %d %s @ %s = %s\n", tx.Side, tx.Quantity, tx.Symbol, amount(tx.PricePerUnit), amount(tx.TotalAmount))
		if resp.Holding != nil {
			fmt.Printf("holding: %d @ %s avg\n", resp.Holding.Quantity, amount(resp.Holding.AvgCost))
		} else {
			fmt.Println("holding: closed")
		}
		fmt.Printf("cash: %s\n", amount(resp.CashBalance))
		return nil
	})
}

type portfolioCmd struct {
	accountID string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "value an account's holdings" }
func (*portfolioCmd) Usage() string {
	return `portfolio -a <account-id>

  Prints every position valued at the latest price, then the totals.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.accountID, "a", "", "Account id (required)")
}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.accountID == "" {
		fmt.Fprintln(os.Stderr, "Error: -a is required")
		return subcommands.ExitUsageError
	}
	return withClient(ctx, func(ctx context.Context, client tradesimv1.TradeSimServiceClient) error {
		p, err := client.GetPortfolio(ctx, &tradesimv1.GetPortfolioRequest{AccountId: c.accountID})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "SYMBOL\tQTY\tAVG COST\tPRICE\tVALUE\tGAIN\tGAIN %\t")
		for _, pos := range p.Positions {
			price := amount(pos.CurrentPrice)
			if !pos.PriceKnown {
				price = "n/a"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t\n",
				pos.Symbol, pos.Quantity, amount(pos.AvgCost), price, amount(pos.CurrentValue), amount(pos.Gain), pos.GainPercent)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\ninvested %s  current %s  gain %s (%s%%)\n", amount(p.InvestedValue), amount(p.CurrentValue), amount(p.Gain), p.GainPercent)
		fmt.Printf("cash %s  portfolio %s\n", amount(p.CashBalance), amount(p.PortfolioValue))
		return nil
	})
}

type transactionsCmd struct {
	accountID string
	limit     int
	offset    int
	csv       bool
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list an account's trades, newest first" }
func (*transactionsCmd) Usage() string {
	return `transactions -a <account-id> [-n <limit>] [-o <offset>] [-csv]
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.accountID, "a", "", "Account id (required)")
	f.IntVar(&c.limit, "n", 20, "Maximum number of transactions")
	f.IntVar(&c.offset, "o", 0, "Number of transactions to skip")
	f.BoolVar(&c.csv, "csv", false, "Write the page as CSV to stdout")
}

func (c *transactionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.accountID == "" {
		fmt.Fprintln(os.Stderr, "Error: -a is required")
		return subcommands.ExitUsageError
	}
	return withClient(ctx, func(ctx context.Context, client tradesimv1.TradeSimServiceClient) error {
		resp, err := client.ListTransactions(ctx, &tradesimv1.ListTransactionsRequest{
			AccountId: c.accountID,
			Limit:     int32(c.limit),
			Offset:    int32(c.offset),
		})
		if err != nil {
			return err
		}
		if c.csv {
			return writeTransactionsCSV(os.Stdout, resp.Transactions)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "EXECUTED\tSIDE\tSYMBOL\tNAME\tQTY\tPRICE\tTOTAL")
		for _, tx := range resp.Transactions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
				tx.ExecutedAt.AsTime().Local().Format("2006-01-02 15:04:05"), tx.Side, tx.Symbol, tx.AssetName, tx.Quantity, amount(tx.PricePerUnit), amount(tx.TotalAmount))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\n%d of %d transactions\n", len(resp.Transactions), resp.TotalCount)
		return nil
	})
}

// writeTransactionsCSV writes one header row and one row per transaction.
// Amounts are plain decimals so spreadsheets can sum them.
func writeTransactionsCSV(out io.Writer, txs []*tradesimv1.Transaction) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"executed_at", "side", "symbol", "name", "quantity", "price_per_unit", "total_amount"}); err != nil {
		return err
	}
	for _, tx := range txs {
		row := []string{
			tx.ExecutedAt.AsTime().UTC().Format(time.RFC3339),
			tx.Side,
			tx.Symbol,
			tx.AssetName,
			strconv.FormatInt(tx.Quantity, 10),
			tx.PricePerUnit,
			tx.TotalAmount,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type pricesCmd struct{}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "list the latest instrument prices" }
func (*pricesCmd) Usage() string {
	return `prices
`
}

func (*pricesCmd) SetFlags(*flag.FlagSet) {}

func (*pricesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withClient(ctx, func(ctx context.Context, client tradesimv1.TradeSimServiceClient) error {
		resp, err := client.ListPrices(ctx, &tradesimv1.ListPricesRequest{})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SYMBOL\tNAME\tTYPE\tPRICE\tCHANGE\tCHANGE %")
		for _, p := range resp.Prices {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				p.Symbol, p.Name, p.AssetType, amount(p.CurrentPrice), amount(p.DailyChange), p.DailyChangePercent)
		}
		return w.Flush()
	})
}

type searchCmd struct {
	query string
	limit int
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "find instruments by symbol or name" }
func (*searchCmd) Usage() string {
	return `search -q <text> [-n <limit>]
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "Text to match against symbol or name (required)")
	f.IntVar(&c.limit, "n", 20, "Maximum number of matches")
}

func (c *searchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if strings.TrimSpace(c.query) == "" {
		fmt.Fprintln(os.Stderr, "Error: -q is required")
		return subcommands.ExitUsageError
	}
	return withClient(ctx, func(ctx context.Context, client tradesimv1.TradeSimServiceClient) error {
		resp, err := client.SearchInstruments(ctx, &tradesimv1.SearchInstrumentsRequest{
			Query: c.query,
			Limit: int32(c.limit),
		})
		if err != nil {
			return err
		}
		if len(resp.Prices) == 0 {
			fmt.Printf("No instruments match %q\n", c.query)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SYMBOL\tNAME\tTYPE\tPRICE")
		for _, p := range resp.Prices {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Symbol, p.Name, p.AssetType, amount(p.CurrentPrice))
		}
		return w.Flush()
	})
}

type leaderboardCmd struct {
	limit int
}

func (*leaderboardCmd) Name() string     { return "leaderboard" }
func (*leaderboardCmd) Synopsis() string { return "rank accounts by portfolio gain" }
func (*leaderboardCmd) Usage() string {
	return `leaderboard [-n <limit>]
`
}

func (c *leaderboardCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 10, "Number of entries, 0 for all")
}

func (c *leaderboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withClient(ctx, func(ctx context.Context, client tradesimv1.TradeSimServiceClient) error {
		resp, err := client.GetLeaderboard(ctx, &tradesimv1.GetLeaderboardRequest{Limit: int32(c.limit)})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RANK\tNAME\tPORTFOLIO\tGAIN\tGAIN %\tBADGE")
		for _, e := range resp.Entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				e.Rank, e.Name, amount(e.PortfolioValue), amount(e.TotalGain), e.GainPercent, e.Badge)
		}
		return w.Flush()
	})
}
