// Command backup creates, lists, restores and prunes MongoDB backups.
//
//	backup create
//	backup list
//	backup restore -name backup_2025-01-02_03-04-05 [-collections picks,games]
//	backup prune
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"cfb-pickem-go/config"
	"cfb-pickem-go/database"
	"cfb-pickem-go/logging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: backup create|list|restore|prune [flags]")
		os.Exit(2)
	}
	command := os.Args[1]

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	name := fs.String("name", "", "backup to restore")
	collections := fs.String("collections", "", "comma-separated collections (default: all)")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())

	db, err := database.NewMongoConnection(cfg.ToDatabaseConfig())
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	var selected []string
	if *collections != "" {
		selected = strings.Split(*collections, ",")
	}
	backups := database.NewBackupService(db, cfg.Backup.Dir, selected...)
	ctx := context.Background()

	switch command {
	case "create":
		info, err := backups.Create(ctx)
		if err != nil {
			logging.Fatalf("Backup failed: %v", err)
		}
		fmt.Println(info.Name)
	case "list":
		list, err := backups.List()
		if err != nil {
			logging.Fatalf("Failed to list backups: %v", err)
		}
		for _, b := range list {
			fmt.Printf("%s\t%s\t%d bytes\t%s\n", b.Name, b.CreatedAt.Format("2006-01-02 15:04"), b.Size, strings.Join(b.Collections, ","))
		}
	case "restore":
		if *name == "" {
			logging.Fatal("restore needs -name")
		}
		if err := backups.Restore(ctx, *name, selected...); err != nil {
			logging.Fatalf("Restore failed: %v", err)
		}
	case "prune":
		removed, err := backups.Prune(cfg.Backup.Retention)
		if err != nil {
			logging.Fatalf("Prune failed: %v", err)
		}
		logging.Infof("Removed %d backups older than %s", removed, cfg.Backup.Retention)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", command)
		os.Exit(2)
	}
}
