package main

import (
	"flag"
	"fmt"
	"os"

	"coffee-wifi/server"

	_ "github.com/mattn/go-sqlite3"
	"github.com/umakantv/go-utils/db/migrations"
)

func main() {
	commandFlag := flag.String("command", "start", "Command to run: start | create-migration")
	configFlag := flag.String("config", "", "Optional YAML config file")
	nameFlag := flag.String("name", "", "Migration name (alphanum+underscore only)")
	dirFlag := flag.String("dir", "./database/migrations", "Target directory for the new .sql file")
	flag.Parse()

	switch *commandFlag {
	case "start":
		server.StartServer(*configFlag)
	case "create-migration":
		migrations.CreateMigration(nameFlag, dirFlag)
	default:
		fmt.Println("Usage: go run main.go --command <start|create-migration> [--config file.yaml] [--name x --dir ./database/migrations]")
		os.Exit(1)
	}
}
