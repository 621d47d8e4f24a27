package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Posts a test message to a webhook so operators can validate the URI
// before adding it to config.
func main() {
	raw := ""
	if len(os.Args) > 1 {
		raw = os.Args[1]
	} else {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Enter a webhook URI to test: ")
		raw, _ = reader.ReadString('\n')
		raw = strings.TrimSpace(raw)
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		fmt.Println("Invalid URI.")
		return
	}

	body, _ := json.Marshal(map[string]string{
		"content": "Test notification from discord-dns-webhook.",
	})
	resp, err := http.Post(raw, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Println("Error posting to webhook:", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		fmt.Println("Delivered! Check the channel for the test message.")
	} else {
		fmt.Println("Webhook returned status:", resp.Status)
	}
}
