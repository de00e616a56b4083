package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CommandKind identifies a client command
type CommandKind int

const (
	CommandBid CommandKind = iota + 1
	CommandStatus
	CommandMessage
	CommandHelp
	CommandQuit
)

// Command is a parsed input line
type Command struct {
	Kind   CommandKind
	Amount decimal.Decimal
	Text   string
}

// ErrUnknownCommand is returned for input that is not a known command
var ErrUnknownCommand = errors.New("unknown command, type /help for the list of commands")

// HelpText lists the commands understood by ParseCommand
const HelpText = `Commands:
  /bid <amount>     place a bid on the current auction
  /status           show the current auction
  /message <text>   send a message to every participant
  /help             show this help
  /quit             leave the auction`

// ParseCommand turns one input line into a Command
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "/bid":
		if rest == "" {
			return Command{}, errors.New("usage: /bid <amount>")
		}
		amount, err := decimal.NewFromString(rest)
		if err != nil {
			return Command{}, fmt.Errorf("invalid amount %q: %w", rest, err)
		}
		if !amount.IsPositive() {
			return Command{}, fmt.Errorf("amount must be positive, got %s", amount)
		}
		return Command{Kind: CommandBid, Amount: amount}, nil
	case "/status":
		return Command{Kind: CommandStatus}, nil
	case "/message", "/msg":
		if rest == "" {
			return Command{}, errors.New("usage: /message <text>")
		}
		return Command{Kind: CommandMessage, Text: rest}, nil
	case "/help":
		return Command{Kind: CommandHelp}, nil
	case "/quit", "/exit":
		return Command{Kind: CommandQuit}, nil
	default:
		return Command{}, ErrUnknownCommand
	}
}
