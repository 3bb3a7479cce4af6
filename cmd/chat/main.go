// Command chat is a terminal client for the supportchat backend. It resumes
// the conversation persisted from a previous run, or starts a new one.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shivamsharmxa/AI-support-agent/internal/chat"
	"github.com/shivamsharmxa/AI-support-agent/internal/widget"
)

func main() {
	serverURL := flag.String("server", envOr("SUPPORTCHAT_URL", "http://localhost:3000"), "backend base URL")
	statePath := flag.String("state", "", "path to the session state file (default ~/.supportchat/state.json)")
	flag.Parse()

	// Keep the transcript clean; session internals log elsewhere.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sess := widget.NewSession(widget.NewClient(*serverURL), *statePath, logger)
	ctx := context.Background()

	if err := sess.Open(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to open session: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	fmt.Printf("connected to %s (conversation %d)\n", *serverURL, sess.ConversationID())
	for _, e := range sess.Entries() {
		printEntry(e)
	}
	fmt.Println("type a message and press enter; ctrl-d to quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		reply, err := sess.Send(ctx, text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
		}
		printEntry(reply)
	}
	fmt.Println()
}

func printEntry(e widget.Entry) {
	label := "you"
	if e.Message.Sender == chat.SenderAI {
		label = "agent"
	}
	fmt.Printf("%s: %s\n", label, e.Message.Text)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
