package main

import (
	"bytes"
	"context"
	"flag"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/timestamppb"

	tradesimv1 "github.com/simaogato/tradesim-backend/internal/adapter/grpc/tradesim/v1"
)

func TestRegister(t *testing.T) {
	c := subcommands.NewCommander(flag.NewFlagSet("tradectl", flag.ContinueOnError), "tradectl")
	register(c)

	var names []string
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		names = append(names, cmd.Name())
	})

	assert.ElementsMatch(t, []string{
		"migrate", "seed-prices", "refresh-prices",
		"open-account", "buy", "sell", "portfolio", "transactions", "prices", "search", "leaderboard",
	}, names)
}

func TestExecute_MissingFlags(t *testing.T) {
	tests := []struct {
		name string
		cmd  subcommands.Command
	}{
		{"open-account without name", &openAccountCmd{}},
		{"buy without quantity", &buyCmd{side: "buy", accountID: "a", symbol: "TCS"}},
		{"sell without symbol", &buyCmd{side: "sell", accountID: "a", quantity: 1}},
		{"portfolio without account", &portfolioCmd{}},
		{"transactions without account", &transactionsCmd{}},
		{"search without query", &searchCmd{query: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := tt.cmd.Execute(context.Background(), flag.NewFlagSet(tt.cmd.Name(), flag.ContinueOnError))
			assert.Equal(t, subcommands.ExitUsageError, status)
		})
	}
}

func TestAmount(t *testing.T) {
	assert.Contains(t, amount("13000"), "13,000.00")
	assert.Equal(t, "not-a-number", amount("not-a-number"))
}

func TestWriteTransactionsCSV(t *testing.T) {
	executed := time.Date(2025, 1, 6, 10, 30, 0, 0, time.UTC)
	var buf bytes.Buffer

	err := writeTransactionsCSV(&buf, []*tradesimv1.Transaction{
		{
			Side:         "BUY",
			Symbol:       "M&M",
			AssetName:    "Mahindra & Mahindra, Ltd",
			Quantity:     3,
			PricePerUnit: "2800.00",
			TotalAmount:  "8400.00",
			ExecutedAt:   timestamppb.New(executed),
		},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"executed_at,side,symbol,name,quantity,price_per_unit,total_amount\n"+
			"2025-01-06T10:30:00Z,BUY,M&M,\"Mahindra & Mahindra, Ltd\",3,2800.00,8400.00\n",
		buf.String())
}
