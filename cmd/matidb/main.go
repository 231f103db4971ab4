// Command matidb runs MatiDB either as an interactive REPL or as a TCP
// server, depending on its arguments.
package main

import (
	"fmt"
	"os"

	"github.com/mlopezgez/matidb/config"
	"github.com/mlopezgez/matidb/database"
	"github.com/mlopezgez/matidb/matiserver"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.WithError(err).Error("matidb: fatal")
		os.Exit(1)
	}
}

func run(args []string) error {
	configPath, args := extractConfigFlag(args)
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if len(args) > 0 && args[0] == "--server" {
		addr := cfg.ServerAddr
		dbPath := cfg.DBPath
		if len(args) > 1 {
			addr = args[1]
		}
		if len(args) > 2 {
			dbPath = args[2]
		}
		return runServer(addr, dbPath, cfg.BufferCapacity)
	}

	dbPath := cfg.DBPath
	if len(args) > 0 {
		dbPath = args[0]
	}
	return runREPL(dbPath, cfg.BufferCapacity)
}

// extractConfigFlag pulls an optional "--config path" pair out of args,
// returning the config file path (empty if none was given) and the
// remaining arguments in order. config.Load treats an empty path as "use
// built-in defaults, overridable by MATIDB_-prefixed environment
// variables", so this flag is optional on every invocation.
func extractConfigFlag(args []string) (string, []string) {
	for i, a := range args {
		if a == "--config" && i+1 < len(args) {
			rest := append(append([]string{}, args[:i]...), args[i+2:]...)
			return args[i+1], rest
		}
	}
	return "", args
}

func runServer(addr, dbPath string, bufferCapacity int) error {
	db, err := database.Open(dbPath, bufferCapacity)
	if err != nil {
		return err
	}

	fmt.Printf("MatiDB Server listening on %s\n", addr)
	fmt.Printf("Database file: %s\n", dbPath)

	srv, err := matiserver.NewServer(addr, db)
	if err != nil {
		db.Close()
		return err
	}
	return srv.Run()
}

func runREPL(dbPath string, bufferCapacity int) error {
	db, err := database.Open(dbPath, bufferCapacity)
	if err != nil {
		return err
	}
	return matiserver.RunREPL(db, os.Stdout)
}
