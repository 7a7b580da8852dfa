package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/astra29104/Travelbolt/internal/auth"
	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/config"
	"github.com/astra29104/Travelbolt/internal/store"
	"github.com/astra29104/Travelbolt/internal/validation"
	"golang.org/x/term"
)

const usage = "expected 'add-admin' or 'migrate' subcommand"

func main() {
	addAdminCmd := flag.NewFlagSet("add-admin", flag.ExitOnError)
	name := addAdminCmd.String("name", "", "Display name of the admin")
	email := addAdminCmd.String("email", "", "Login email of the admin")
	password := addAdminCmd.String("password", "", "Password (prompted when omitted)")

	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-admin":
		addAdminCmd.Parse(os.Args[2:])
		if *name == "" || *email == "" {
			fmt.Println("name and email are required")
			addAdminCmd.PrintDefaults()
			os.Exit(1)
		}
		if *password == "" {
			*password = promptPassword()
		}
		createAdmin(*name, *email, *password)
	case "migrate":
		migrateCmd.Parse(os.Args[2:])
		client := openStore()
		client.Close()
		fmt.Println("Migrations applied.")
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

func openStore() store.Client {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	client, err := store.Open(cfg.StoreURL, cfg.StoreKey)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	// Ensure tables exist if running cli before server
	if err := store.Prepare(client, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	return client
}

func createAdmin(name, email, password string) {
	client := openStore()
	defer client.Close()

	accounts := auth.NewAccounts(catalog.NewUsers(client))
	user, err := accounts.CreateAdmin(context.Background(), name, email, password)
	if v, ok := validation.As(err); ok {
		log.Fatalf("Invalid admin: %s", strings.Join(v.Messages(), " "))
	}
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin '%s' created successfully.\n", user.Email)
}

// promptPassword reads the password twice without echo, or one line from
// stdin when it is not a terminal.
func promptPassword() string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("Failed to read password: %v", err)
		}
		return strings.TrimRight(line, "\r\n")
	}

	fmt.Print("Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	fmt.Print("Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	if string(first) != string(second) {
		log.Fatal("Passwords do not match")
	}
	return string(first)
}
