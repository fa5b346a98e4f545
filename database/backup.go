package database

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cfb-pickem-go/logging"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	backupPrefix     = "backup_"
	backupTimeLayout = "2006-01-02_15-04-05"
	restoreBatchSize = 1000
)

// BackupCollections is every collection the pool owns, in restore order
var BackupCollections = []string{
	TeamAliasesCollection,
	UsersCollection,
	GamesCollection,
	BowlGamesCollection,
	PicksCollection,
	BowlPicksCollection,
}

// BackupInfo describes one backup directory
type BackupInfo struct {
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	Size        int64     `json:"size"`
	Collections []string  `json:"collections"`
}

// BackupService dumps collections to canonical extended JSON, one document
// per line, and restores them
type BackupService struct {
	db          *MongoDB
	backupDir   string
	collections []string
	logger      *logging.Logger
}

// NewBackupService creates a backup service writing under backupDir. With
// no collections given, all of BackupCollections are included.
func NewBackupService(db *MongoDB, backupDir string, collections ...string) *BackupService {
	if len(collections) == 0 {
		collections = BackupCollections
	}
	return &BackupService{
		db:          db,
		backupDir:   backupDir,
		collections: collections,
		logger:      logging.WithPrefix("Backup"),
	}
}

// Create writes a new backup and returns its description
func (b *BackupService) Create(ctx context.Context) (*BackupInfo, error) {
	now := time.Now().UTC()
	name := backupPrefix + now.Format(backupTimeLayout)
	path := filepath.Join(b.backupDir, name)

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	for _, collection := range b.collections {
		count, err := b.dumpCollection(ctx, collection, path)
		if err != nil {
			return nil, fmt.Errorf("failed to back up %s: %w", collection, err)
		}
		b.logger.Infof("Backed up %d documents from %s", count, collection)
	}

	info := &BackupInfo{Name: name, CreatedAt: now, Collections: b.collections}
	if err := writeMetadata(path, info); err != nil {
		b.logger.Warnf("Failed to write backup metadata: %v", err)
	}
	info.Size = dirSize(path)

	b.logger.Infof("Backup %s complete (%d bytes)", name, info.Size)
	return info, nil
}

func (b *BackupService) dumpCollection(ctx context.Context, collection, dir string) (int, error) {
	ctx, cancel := WithLongTimeout(ctx)
	defer cancel()

	cursor, err := b.db.GetCollection(collection).Find(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to query: %w", err)
	}
	defer cursor.Close(ctx)

	file, err := os.Create(filepath.Join(dir, collection+".jsonl"))
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	count := 0
	for cursor.Next(ctx) {
		// Canonical extended JSON keeps ObjectIDs and dates round-trippable
		line, err := bson.MarshalExtJSON(cursor.Current, true, false)
		if err != nil {
			return count, fmt.Errorf("failed to encode document: %w", err)
		}
		w.Write(line)
		w.WriteByte('\n')
		count++
	}
	if err := cursor.Err(); err != nil {
		return count, fmt.Errorf("cursor error: %w", err)
	}
	return count, w.Flush()
}

// Restore replaces the given collections (all backed-up ones when empty)
// with the contents of backup name. Existing documents are deleted first.
func (b *BackupService) Restore(ctx context.Context, name string, collections ...string) error {
	path := filepath.Join(b.backupDir, name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("backup %s not found: %w", name, err)
	}

	if len(collections) == 0 {
		if meta, err := readMetadata(path); err == nil {
			collections = meta.Collections
		} else {
			collections = b.collections
		}
	}

	for _, collection := range collections {
		count, err := b.loadCollection(ctx, collection, path)
		if err != nil {
			return fmt.Errorf("failed to restore %s: %w", collection, err)
		}
		b.logger.Infof("Restored %d documents to %s", count, collection)
	}
	return nil
}

func (b *BackupService) loadCollection(ctx context.Context, collection, dir string) (int, error) {
	file, err := os.Open(filepath.Join(dir, collection+".jsonl"))
	if err != nil {
		return 0, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()

	ctx, cancel := WithLongTimeout(ctx)
	defer cancel()

	coll := b.db.GetCollection(collection)
	b.logger.Warnf("Clearing %s before restore", collection)
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, fmt.Errorf("failed to clear collection: %w", err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	count := 0
	batch := make([]interface{}, 0, restoreBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := coll.InsertMany(ctx, batch); err != nil {
			return fmt.Errorf("failed to insert batch: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var doc bson.D
		if err := bson.UnmarshalExtJSON(line, true, &doc); err != nil {
			return count, fmt.Errorf("line %d: %w", count+1, err)
		}
		batch = append(batch, doc)
		count++
		if len(batch) >= restoreBatchSize {
			if err := flush(); err != nil {
				return count, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("failed to read backup file: %w", err)
	}
	return count, flush()
}

// List returns the available backups, newest first
func (b *BackupService) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(b.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), backupPrefix) {
			continue
		}
		path := filepath.Join(b.backupDir, entry.Name())
		info := BackupInfo{Name: entry.Name(), Collections: b.collections}
		if meta, err := readMetadata(path); err == nil {
			info.CreatedAt = meta.CreatedAt
			info.Collections = meta.Collections
		} else if t, err := time.Parse(backupTimeLayout, strings.TrimPrefix(entry.Name(), backupPrefix)); err == nil {
			info.CreatedAt = t
		}
		info.Size = dirSize(path)
		backups = append(backups, info)
	}

	sort.Slice(backups, func(i, j int) bool { return backups[i].CreatedAt.After(backups[j].CreatedAt) })
	return backups, nil
}

// Prune removes backups older than retention and returns how many went
func (b *BackupService) Prune(retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, nil
	}
	backups, err := b.List()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-retention)
	removed := 0
	for _, backup := range backups {
		if backup.CreatedAt.IsZero() || !backup.CreatedAt.Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(b.backupDir, backup.Name)); err != nil {
			b.logger.Warnf("Failed to remove %s: %v", backup.Name, err)
			continue
		}
		b.logger.Infof("Removed old backup %s", backup.Name)
		removed++
	}
	return removed, nil
}

func writeMetadata(dir string, info *BackupInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "metadata.json"), data, 0o644)
}

func readMetadata(dir string) (*BackupInfo, error) {
	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var info BackupInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func dirSize(dir string) int64 {
	var total int64
	filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total
}
