// This program provides command line support for the registration service.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/conf/v3"
)

const usage = `regctl register <name> <address>   register an address for a user
regctl history <name>              print a user's address history
regctl watch                       print registrations as they happen`

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Printf("Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func run() error {
	cfg := struct {
		conf.Version
		Args    conf.Args
		APIHost string        `conf:"default:http://localhost:3000"`
		FeedURL string        `conf:"default:ws://localhost:3000/feed"`
		Timeout time.Duration `conf:"default:5s"`
	}{
		Version: conf.Version{
			Build: "develop",
			Desc:  "REGCTL",
		},
	}

	const prefix = "REGCTL"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			fmt.Println(usage)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	client := NewClient(cfg.APIHost, cfg.Timeout)

	switch cfg.Args.Num(0) {
	case "register":
		name, address := cfg.Args.Num(1), cfg.Args.Num(2)
		if name == "" || address == "" {
			return printUsage()
		}

		res, err := client.Register(name, address)
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}

		fmt.Println(res.Message)

	case "history":
		name := cfg.Args.Num(1)
		if name == "" {
			return printUsage()
		}

		hist, err := client.History(name)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}

		fmt.Printf("%s %s\n", hist.ID, hist.Name)
		for _, addr := range hist.Addresses {
			fmt.Printf("  %d\t%s\n", addr.ID, addr.Address)
		}

	case "watch":
		w := NewWatcher(cfg.FeedURL)
		defer w.Close()

		if err := w.Handshake(); err != nil {
			return fmt.Errorf("handshake: %w", err)
		}

		fmt.Println("CONNECTED")

		if err := w.Run(os.Stdout); err != nil {
			return fmt.Errorf("watch: %w", err)
		}

	default:
		return printUsage()
	}

	return nil
}

func printUsage() error {
	fmt.Println(usage)
	return errUsage
}
