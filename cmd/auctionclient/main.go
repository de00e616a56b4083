package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"auction-house/internal/client"
	model "auction-house/internal/models"
	"auction-house/utils"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

func main() {
	server := pflag.String("server", "http://localhost:8080", "auction server base URL")
	logLevel := pflag.String("log-level", "warn", "log level for diagnostics")
	pflag.Parse()

	if err := utils.SetLevel(*logLevel); err != nil {
		utils.Fatal("invalid log level", map[string]any{"error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, client.New(*server, nil), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	if err := register(ctx, c, scanner, out); err != nil {
		return err
	}
	defer func() {
		if err := c.Leave(context.Background()); err != nil {
			utils.Warn("client: leave failed", map[string]any{"error": err.Error()})
		}
	}()

	fmt.Fprintf(out, "Welcome %s!\n%s\n", c.UserID(), client.HelpText)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := c.Listen(ctx, func(msg string) { fmt.Fprintln(out, msg) })
		if ctx.Err() != nil {
			// the user quit, possibly before the stream was up
			return nil
		}
		if err == nil {
			// server closed the stream, nothing left to bid on
			fmt.Fprintln(out, "Disconnected from server")
			cancel()
		}
		return err
	})
	g.Go(func() error {
		defer cancel()
		return commandLoop(ctx, c, scanner, out)
	})
	return g.Wait()
}

// register asks for a name until the server accepts one
func register(ctx context.Context, c *client.Client, scanner *bufio.Scanner, out io.Writer) error {
	for {
		fmt.Fprint(out, "Enter your username: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read username: %w", err)
			}
			return errors.New("no username given")
		}

		name := strings.TrimSpace(scanner.Text())
		if !model.IsValidUsername(name) {
			fmt.Fprintln(out, "Usernames are 3-16 letters, digits or underscores.")
			continue
		}

		err := c.Register(ctx, name)
		switch {
		case err == nil:
			return nil
		case client.IsStatus(err, http.StatusConflict):
			fmt.Fprintf(out, "%s is already taken, pick another name.\n", name)
		default:
			return err
		}
	}
}

func commandLoop(ctx context.Context, c *client.Client, scanner *bufio.Scanner, out io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			quit, err := execute(ctx, c, line, out)
			if err != nil {
				fmt.Fprintln(out, err)
			}
			if quit {
				return nil
			}
		}
	}
}

func execute(ctx context.Context, c *client.Client, line string, out io.Writer) (bool, error) {
	cmd, err := client.ParseCommand(line)
	if err != nil {
		return false, err
	}

	switch cmd.Kind {
	case client.CommandBid:
		// acceptance is announced through the broadcast stream
		_, err := c.Bid(ctx, cmd.Amount)
		return false, err
	case client.CommandStatus:
		status, err := c.Status(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, status)
	case client.CommandMessage:
		return false, c.Message(ctx, cmd.Text)
	case client.CommandHelp:
		fmt.Fprintln(out, client.HelpText)
	case client.CommandQuit:
		fmt.Fprintln(out, "Goodbye")
		return true, nil
	}
	return false, nil
}
