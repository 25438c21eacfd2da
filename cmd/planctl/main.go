// Package main provides an offline payment-plan calculator.
// Usage: planctl generate --subtotal 1000 --deposit 200 --installments 3 --start 2025-01-31
//        planctl help
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/types"
	"dormdesk/internal/domain/paymentplan"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer, now func() time.Time) error {
	if len(args) == 0 {
		printUsage(out)
		return errors.New("missing command")
	}

	switch args[0] {
	case "generate":
		return generate(args[1:], out, now)
	case "help", "--help", "-h":
		printUsage(out)
		return nil
	default:
		printUsage(out)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, `dormdesk payment plan calculator

Usage:
  planctl <command> [options]

Commands:
  generate  Print an installment schedule and its summary
  help      Show this help

Options (generate):
  --subtotal      Product subtotal, deposit excluded (required)
  --deposit       Deposit amount (default 0)
  --installments  Number of installments (default 10)
  --start         First installment date, YYYY-MM-DD (default today)
  --type          Payment type id put on every line (default 1)
  --lang          Locale used to format amounts (default en)
  --json          Print the plan as JSON

Examples:
  planctl generate --subtotal 1000 --installments 3
  planctl generate --subtotal 1000 --deposit 200 --installments 3 --start 2025-01-31`)
}

type generateOptions struct {
	subtotal      types.Money
	deposit       types.Money
	installments  int
	start         types.Date
	paymentTypeID int64
	lang          language.Tag
	asJSON        bool
}

func parseGenerate(args []string, now func() time.Time) (generateOptions, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	subtotal := fs.String("subtotal", "", "")
	deposit := fs.String("deposit", "0", "")
	installments := fs.Int("installments", 10, "")
	start := fs.String("start", "", "")
	paymentType := fs.Int64("type", 1, "")
	lang := fs.String("lang", "en", "")
	asJSON := fs.Bool("json", false, "")

	if err := fs.Parse(args); err != nil {
		return generateOptions{}, err
	}

	opts := generateOptions{
		installments:  *installments,
		paymentTypeID: *paymentType,
		asJSON:        *asJSON,
	}

	if *subtotal == "" {
		return opts, errors.New("--subtotal is required")
	}
	var err error
	if opts.subtotal, err = types.NewMoneyFromString(*subtotal); err != nil {
		return opts, fmt.Errorf("invalid --subtotal %q: %w", *subtotal, err)
	}
	if opts.deposit, err = types.NewMoneyFromString(*deposit); err != nil {
		return opts, fmt.Errorf("invalid --deposit %q: %w", *deposit, err)
	}
	if opts.deposit.IsNegative() {
		return opts, errors.New("--deposit cannot be negative")
	}

	opts.start = types.DateOf(now())
	if *start != "" {
		if opts.start, err = types.ParseDate(*start); err != nil {
			return opts, fmt.Errorf("invalid --start %q: %w", *start, err)
		}
	}

	if opts.lang, err = language.Parse(*lang); err != nil {
		return opts, fmt.Errorf("invalid --lang %q: %w", *lang, err)
	}
	return opts, nil
}

type planOutput struct {
	Lines   []paymentplan.Line  `json:"lines"`
	Summary paymentplan.Summary `json:"summary"`
}

func generate(args []string, out io.Writer, now func() time.Time) error {
	opts, err := parseGenerate(args, now)
	if err != nil {
		return err
	}

	// The deposit is planned on the start date, ahead of the first installment.
	current := paymentplan.SyncDeposit(nil, opts.deposit, opts.start)
	res, err := paymentplan.Generate(current, paymentplan.GenerateInput{
		ProductTotal:  opts.subtotal,
		Installments:  opts.installments,
		StartDate:     opts.start,
		PaymentTypeID: opts.paymentTypeID,
	})
	if err != nil {
		return describe(err)
	}

	plan := planOutput{
		Lines:   res.Lines,
		Summary: paymentplan.Summarize(opts.subtotal, opts.deposit, res.Lines),
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}
	printPlan(message.NewPrinter(opts.lang), out, plan)
	return nil
}

func printPlan(p *message.Printer, out io.Writer, plan planOutput) {
	p.Fprintf(out, "%-4s %-10s %14s %s\n", "#", "DATE", "AMOUNT", "KIND")
	n := 0
	for _, l := range plan.Lines {
		kind := "installment"
		var label string
		if l.IsDeposit {
			kind = "deposit"
			label = "-"
		} else {
			n++
			label = fmt.Sprint(n)
		}
		p.Fprintf(out, "%-4s %-10s %14s %s\n", label, l.PlannedDate, amount(p, l.PlannedAmount), kind)
	}

	s := plan.Summary
	p.Fprintln(out)
	p.Fprintf(out, "%-18s %14s\n", "Product subtotal", amount(p, s.ProductSubtotal))
	p.Fprintf(out, "%-18s %14s\n", "Deposit", amount(p, s.DepositAmount))
	p.Fprintf(out, "%-18s %14s\n", "Total", amount(p, s.TotalAmount))
	p.Fprintf(out, "%-18s %14s\n", "Planned", amount(p, s.PlannedTotal))
	p.Fprintf(out, "%-18s %14s\n", "Remaining", amount(p, s.Remaining))
	if s.Warning != paymentplan.WarningNone {
		p.Fprintf(out, "warning: %s\n", s.Warning)
	}
}

func amount(p *message.Printer, m types.Money) string {
	return p.Sprint(number.Decimal(m.InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// describe flattens field errors into one line for the terminal.
func describe(err error) error {
	fields := apperror.FieldErrors(err)
	if len(fields) == 0 {
		return err
	}
	msg := apperror.Message(err)
	for _, name := range []string{"product_total", "installments", "start_date", "payment_type_id"} {
		for _, m := range fields[name] {
			msg += fmt.Sprintf("; %s: %s", name, m)
		}
	}
	return errors.New(msg)
}
