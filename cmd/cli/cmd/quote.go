package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cargo-quote/core/cart"
	"cargo-quote/core/category"
	"cargo-quote/core/dialog"
	"cargo-quote/core/tariff"
	"cargo-quote/internal/config"
	"cargo-quote/internal/logging"
)

// quoteCmd runs an interactive quote dialogue on the terminal
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Collect a shipment interactively and price it",
	Long: `Walks through the quote dialogue on the terminal: destination
city, warehouse, then one or more items (category, weight, volume or
dimensions), and prints the combined quote at the end.`,
	RunE: runQuote,
}

func runQuote(cmd *cobra.Command, args []string) error {
	tables := tariff.NewTables(config.Get())
	machine := dialog.NewMachine(tables, category.KeywordClassifier{}, nil, logging.Logger)

	sess, reply := machine.Start("")
	printReply(reply)
	if reply.Done {
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		reply = machine.Advance(ctx, sess, input)
		printReply(reply)
		if reply.Done {
			break
		}
	}
	return scanner.Err()
}

func printReply(reply dialog.Reply) {
	if reply.Notice != "" {
		fmt.Println(reply.Notice)
	}
	if reply.Quote != nil {
		printQuote(reply.Quote)
	}
	if reply.Prompt != "" {
		fmt.Printf("> %s\n", reply.Prompt)
	}
}

func printQuote(q *cart.Quote) {
	fmt.Println()
	fmt.Println("=== Quote ===")
	for _, item := range q.Items {
		tag := ""
		if item.Manual {
			tag = " (agreed rate)"
		}
		if item.AssumedVolume {
			tag += " (volume assumed)"
		}
		fmt.Printf("  %d. %-20s %7.2f kg  %6.3f m3  $%s/%s  $%s%s\n",
			item.Index+1, item.Category, item.Weight, item.Volume,
			item.Rate.StringFixed(2), item.Unit, item.CostUSD.StringFixed(2), tag)
	}
	fmt.Printf("Total weight:        %.2f kg\n", q.TotalWeight)
	fmt.Printf("Total volume:        %.3f m3\n", q.TotalVolume)
	fmt.Printf("International:       $%s (%s KZT)\n",
		q.InternationalTotalUSD.StringFixed(2), q.InternationalTotalKZT.StringFixed(0))
	fmt.Printf("Domestic (zone %s):  %s KZT (estimate)\n",
		q.DomesticZone, q.DomesticEstimateKZT.StringFixed(0))
	fmt.Printf("Combined estimate:   %s KZT\n", q.CombinedEstimateKZT.StringFixed(0))
}
