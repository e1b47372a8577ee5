// Command promote grants the administrative flag to an existing user.
//
//	promote -username alice
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Skotchmaster/microshop/pkg/db"
	"github.com/Skotchmaster/microshop/services/auth/app"
	"github.com/Skotchmaster/microshop/services/auth/internal/config"
)

func main() {
	username := flag.String("username", "", "user to promote")
	flag.Parse()
	if *username == "" {
		fmt.Fprintln(os.Stderr, "usage: promote -username <name>")
		os.Exit(2)
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close(gdb)

	if err := app.Migrate(gdb); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}
	if err := app.Promote(ctx, gdb, *username); err != nil {
		log.Fatalf("promote %s: %v", *username, err)
	}
	fmt.Printf("%s is now an admin\n", *username)
}
