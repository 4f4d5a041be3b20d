// Command boodschappen-chat is a terminal chat client against the same
// ledger the server uses: it reads commands from stdin and prints the
// replies.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"boodschappen/internal/cli"
	"boodschappen/internal/core"
	"boodschappen/internal/services"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg)

	session, err := services.NewSession(context.Background(), store, core.Settings{
		CurrencyCode: cfg.CurrencyCode,
		Theme:        cfg.Theme,
		ShowPrice:    cfg.ShowPrice,
	})
	if err != nil {
		logger.Error("Failed to initialize session", "error", err)
		os.Exit(1)
	}

	if err := session.Refresh(context.Background()); err != nil {
		logger.Warn("Startup refresh failed", "error", err)
	}

	ctx := cli.GracefulShutdown(logger, 10*time.Second, func(shutdownCtx context.Context) {
		if err := session.Close(); err != nil {
			logger.Error("Failed to close data backend", "error", err)
		}
	})

	fmt.Println("Boodschappenlijst. Typ een opdracht, of 'stop' om af te sluiten.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "stop", "exit", "quit":
			if err := session.Close(); err != nil {
				logger.Error("Failed to close data backend", "error", err)
			}
			fmt.Println("Tot ziens!")
			return
		case "volgende week":
			weekTotal, err := session.CloseWeek(ctx)
			if err != nil {
				logger.Error("Failed to persist week close", "error", err)
			}
			carry := session.Summary(ctx).MonthCarry
			fmt.Printf("Week afgesloten. Weektotaal: %s. Maandtotaal tot nu toe: %s.\n",
				session.FormatAmount(weekTotal), session.FormatAmount(carry))
			continue
		case "volgende maand":
			newKey, err := session.CloseMonth(ctx)
			if err != nil {
				logger.Error("Failed to persist month close", "error", err)
			}
			fmt.Printf("Maand afgesloten. Nieuwe maand: %s.\n", newKey)
			continue
		}

		fmt.Println(session.Respond(ctx, line))
	}

	if err := scanner.Err(); err != nil {
		logger.Error("Failed reading input", "error", err)
	}
	if err := session.Close(); err != nil {
		logger.Error("Failed to close data backend", "error", err)
	}
}
