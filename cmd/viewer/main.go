package main

import (
	"chat-core/internal"
	"chat-core/repositories"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

// Read-only terminal view over the message keyspace. Can run while the
// server holds the badger lock thanks to BypassLockGuard.
func main() {
	conversation := flag.String("conversation", "", "Conversation id to filter on (empty shows everything)")
	flag.Parse()

	// 1. Load config
	_ = godotenv.Load()
	var config internal.ViewerConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// 2. Open Badger in Read-Only mode
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	prefix := "msg:"
	if *conversation != "" {
		prefix = fmt.Sprintf("msg:%s:", *conversation)
	}

	header := fmt.Sprintf(" chat-core viewer — prefix %q ", prefix)
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(header))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Sent At", "Conversation", "Sender", "Type", "Status", "Content"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var record repositories.MessageRecord
				if err := json.Unmarshal(v, &record); err != nil {
					// Corrupted or foreign entry, keep scanning
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}

				content := record.Content
				if record.Deleted {
					content = color.Gray.Render("(deleted)")
				} else if record.Edited {
					content += color.Gray.Render(" (edited)")
				}

				table.Append([]string{
					record.SentAt.Format("15:04:05"),
					shortID(record.ConversationID.String()),
					shortID(record.SenderID.String()),
					string(record.Type),
					string(record.Status),
					content,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

// shortID keeps the first 8 characters of a uuid for readability.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
