package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/shopspring/decimal"

	"account-records/internal/report"
	"account-records/internal/service"
	"account-records/internal/store"
)

const helpText = `
Available Commands:

CREATE <num> <last> <first> <balance>
  Open a new account. Quote names that contain spaces.

READ <num>
  Show one account.

BALANCE <num> <delta>
  Add delta (may be negative) to the account balance.

RENAME <num> <last> <first>
  Replace both names.

REPLACE <num> <last> <first> <balance>
  Replace names and balance in one update.

DELETE <num>
  Remove the account. The slot becomes reusable.

LIST
  List all accounts.

SUMMARY
  Show count, total, overdrawn count and average balance.

REPORT
  Print the formatted account report.

HELP
  Show this help message.

EXIT
  Quit.
`

func main() {
	dataFile := flag.String("data", "accounts.dat", "Path to the account file")
	verbose := flag.Bool("v", false, "Log service activity to stderr")
	flag.Parse()

	logOut := io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	st := store.New(*dataFile, logger)
	if err := st.InitializeIfMissing(); err != nil {
		log.Fatal(err)
	}

	accounts := service.NewAccountService(st, logger)
	reporter := report.NewGenerator(accounts)

	fmt.Printf("Using account file %s\n", *dataFile)
	fmt.Println("Type commands. 'help' for information or 'exit' to quit.")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				fmt.Println("input error:", err)
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args, err := shellquote.Split(line)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}

		cmd := strings.ToLower(args[0])
		if cmd == "exit" {
			return
		}

		runCommand(accounts, reporter, cmd, args[1:])
	}
}

func runCommand(accounts *service.AccountService, reporter *report.Generator, cmd string, args []string) {
	switch cmd {
	case "create":
		if len(args) != 4 {
			fmt.Println("usage: create <num> <last> <first> <balance>")
			return
		}
		num, balance, ok := parseNumAndAmount(args[0], args[3])
		if !ok {
			return
		}
		account, err := accounts.Create(num, args[1], args[2], balance)
		if err != nil {
			fmt.Println(err)
			return
		}
		printAccount(account.Number, account.LastName, account.FirstName, account.Balance)

	case "read":
		num, ok := parseNum(args)
		if !ok {
			return
		}
		account, err := accounts.Read(num)
		if err != nil {
			fmt.Println(err)
			return
		}
		printAccount(account.Number, account.LastName, account.FirstName, account.Balance)

	case "balance":
		if len(args) != 2 {
			fmt.Println("usage: balance <num> <delta>")
			return
		}
		num, delta, ok := parseNumAndAmount(args[0], args[1])
		if !ok {
			return
		}
		account, err := accounts.AdjustBalance(num, delta)
		if err != nil {
			fmt.Println(err)
			return
		}
		printAccount(account.Number, account.LastName, account.FirstName, account.Balance)

	case "rename":
		if len(args) != 3 {
			fmt.Println("usage: rename <num> <last> <first>")
			return
		}
		num, ok := parseNum(args[:1])
		if !ok {
			return
		}
		account, err := accounts.Rename(num, args[1], args[2])
		if err != nil {
			fmt.Println(err)
			return
		}
		printAccount(account.Number, account.LastName, account.FirstName, account.Balance)

	case "replace":
		if len(args) != 4 {
			fmt.Println("usage: replace <num> <last> <first> <balance>")
			return
		}
		num, balance, ok := parseNumAndAmount(args[0], args[3])
		if !ok {
			return
		}
		account, err := accounts.Replace(num, args[1], args[2], balance)
		if err != nil {
			fmt.Println(err)
			return
		}
		printAccount(account.Number, account.LastName, account.FirstName, account.Balance)

	case "delete":
		num, ok := parseNum(args)
		if !ok {
			return
		}
		if err := accounts.Delete(num); err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println("ok")

	case "list":
		all, err := accounts.ListAll()
		if err != nil {
			fmt.Println(err)
			return
		}
		if len(all) == 0 {
			fmt.Println("no accounts")
			return
		}
		for _, a := range all {
			printAccount(a.Number, a.LastName, a.FirstName, a.Balance)
		}

	case "summary":
		summary, err := accounts.Aggregate()
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("accounts=%d total=%s overdrawn=%d average=%s\n",
			summary.Count, summary.TotalBalance.StringFixed(2),
			summary.OverdrawnCount, summary.AverageBalance.StringFixed(2))

	case "report":
		if err := reporter.Write(os.Stdout); err != nil {
			fmt.Println(err)
		}

	case "help":
		fmt.Println(strings.TrimSpace(helpText))

	default:
		fmt.Println("invalid command, try 'help'")
	}
}

func parseNum(args []string) (uint32, bool) {
	if len(args) != 1 {
		fmt.Println("usage: <command> <num>")
		return 0, false
	}
	n, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Println("account number must be an integer")
		return 0, false
	}
	return uint32(n), true
}

func parseNumAndAmount(numArg, amountArg string) (uint32, decimal.Decimal, bool) {
	n, err := strconv.ParseUint(numArg, 10, 32)
	if err != nil {
		fmt.Println("account number must be an integer")
		return 0, decimal.Zero, false
	}
	amount, err := decimal.NewFromString(amountArg)
	if err != nil {
		fmt.Println("amount must be a decimal number")
		return 0, decimal.Zero, false
	}
	return uint32(n), amount, true
}

func printAccount(num uint32, last, first string, balance decimal.Decimal) {
	fmt.Printf("%-4d %-14s %-9s %s\n", num, last, first, balance.StringFixed(2))
}
