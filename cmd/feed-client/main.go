package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"bookhub/internal/feed"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP feed server address")
	raw := flag.Bool("raw", false, "print raw JSON lines instead of formatted events")
	flag.Parse()

	for {
		if err := follow(*addr, *raw); err != nil {
			log.Printf("[feed-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func follow(addr string, raw bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[feed-client] following record feed at %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()

		if raw {
			fmt.Println(string(line))
			continue
		}

		var ev feed.RecordEvent
		if err := json.Unmarshal(line, &ev); err != nil || ev.Type == "" {
			// hello messages and anything else pass through untouched
			fmt.Println(string(line))
			continue
		}
		fmt.Println(formatEvent(ev))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func formatEvent(ev feed.RecordEvent) string {
	at := ev.At.Local().Format("15:04:05")
	switch ev.Type {
	case feed.RecordDeleted:
		return fmt.Sprintf("%s %s record #%d (user %s)", at, ev.Type, ev.RecordID, ev.UserID)
	default:
		return fmt.Sprintf("%s %s record #%d %q status=%s (user %s)",
			at, ev.Type, ev.RecordID, ev.Title, ev.Status, ev.UserID)
	}
}
