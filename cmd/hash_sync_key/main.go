// Command hash_sync_key generates a sync API key and the bcrypt hash to put
// in SYNC_API_KEY_HASH. Pass -key to hash an existing key instead.
package main

import (
	"flag"
	"fmt"
	"strings"

	"cfb-pickem-go/logging"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	key := flag.String("key", "", "existing key to hash")
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	if *key == "" {
		*key = strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
		fmt.Printf("SYNC_API_KEY=%s\n", *key)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*key), *cost)
	if err != nil {
		logging.Fatalf("Failed to hash key: %v", err)
	}
	fmt.Printf("SYNC_API_KEY_HASH=%s\n", hash)
}
