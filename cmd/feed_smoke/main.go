// feed_smoke connects to the activity feed, runs one command over the API and
// prints every frame received for a few seconds.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	base := flag.String("addr", "localhost:8080", "server host:port")
	command := flag.String("command", "work", "command to run")
	wait := flag.Duration("wait", 3*time.Second, "how long to read the feed")
	flag.Parse()

	token := os.Getenv("TOKEN")
	if token == "" {
		log.Fatal("TOKEN not set (see cmd/seed_player)")
	}

	u := url.URL{Scheme: "ws", Host: *base, Path: "/ws/feed", RawQuery: "scope=mine&token=" + url.QueryEscape(token)}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("dial feed: %v", err)
	}
	defer conn.Close()

	body, _ := json.Marshal(map[string]any{"command": *command})
	req, _ := http.NewRequest(http.MethodPost, "http://"+*base+"/api/v1/interactions", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("interaction: %v", err)
	}
	var reply map[string]any
	_ = json.NewDecoder(res.Body).Decode(&reply)
	res.Body.Close()
	fmt.Printf("%s -> %d %v\n", *command, res.StatusCode, reply["content"])

	_ = conn.SetReadDeadline(time.Now().Add(*wait))
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		fmt.Println(string(msg))
	}
}
