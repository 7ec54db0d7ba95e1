// cmd/holdem-cli/main.go
//
// Terminal client for the holdem server: joins a table, follows its event
// stream and submits actions typed on stdin.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/mkarasz/holdem/internal/game"
	"github.com/mkarasz/holdem/internal/models"
)

const separatorFrame = "\n{\"separator\":\"cb935688-891a-45d1-9692-0275ab14be96\"}\n"

type client struct {
	server string
	user   string
	http   *http.Client
}

func (c *client) request(method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, c.server+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Username", c.user)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// post runs a mutation and surfaces the server's plain-text error body.
func (c *client) post(path string, body string) error {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	resp, err := c.request(http.MethodPost, path, rd)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}

// wireEvent mirrors the stream framing with the payload left raw until the
// type is known.
type wireEvent struct {
	Channel string `json:"channel"`
	ID      int64  `json:"id"`
	Evt     struct {
		Timestamp time.Time        `json:"timestamp"`
		Type      models.EventType `json:"type"`
		Event     json.RawMessage  `json:"event"`
	} `json:"evt"`
}

func main() {
	server := flag.String("server", "http://localhost:8080", "server base URL")
	user := flag.String("user", "", "credentials as name:password")
	table := flag.String("table", "main", "table to join")
	flag.Parse()
	if *user == "" {
		pterm.Error.Println("missing -user name:password")
		os.Exit(1)
	}
	name, _, _ := strings.Cut(*user, ":")

	c := &client{server: *server, user: *user, http: &http.Client{}}

	// Create-or-join: creating an existing table just means someone was
	// here first.
	if err := c.post("/api/tables/"+*table, ""); err != nil && !strings.Contains(err.Error(), "409") {
		pterm.Error.Printfln("create table: %v", err)
		os.Exit(1)
	}
	if err := c.post("/api/tables/"+*table+"/join", ""); err != nil {
		pterm.Error.Printfln("join table: %v", err)
		os.Exit(1)
	}

	pterm.DefaultHeader.Printfln("holdem — table %s as %s", *table, name)
	pterm.Info.Println("commands: start | check | call | fold | bet <n> | raise <n> | quit")

	go streamEvents(c, name, *table)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		var err error
		switch fields[0] {
		case "quit":
			return
		case "start":
			err = c.post("/api/tables/"+*table+"/start", "")
		case "check", "call", "fold":
			err = c.post("/api/tables/"+*table+"/action",
				fmt.Sprintf(`{"what": %q}`, fields[0]))
		case "bet", "raise":
			if len(fields) < 2 {
				err = fmt.Errorf("usage: %s <amount>", fields[0])
				break
			}
			var amount int
			if amount, err = strconv.Atoi(fields[1]); err != nil {
				break
			}
			err = c.post("/api/tables/"+*table+"/action",
				fmt.Sprintf(`{"what": %q, "raise_amount": %d}`, fields[0], amount))
		default:
			err = fmt.Errorf("unknown command %q", fields[0])
		}
		if err != nil {
			pterm.Error.Println(err)
		}
	}
}

// streamEvents follows the long-lived poll-events response and renders
// each frame.
func streamEvents(c *client, name, table string) {
	path := fmt.Sprintf("/api/poll-events?channel=table-%s,player-%s:%s&id=cli", table, name, table)
	resp, err := c.request(http.MethodGet, path, nil)
	if err != nil {
		pterm.Error.Printfln("event stream: %v", err)
		return
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	chunk := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(chunk)
		buf.Write(chunk[:n])
		for {
			raw := buf.Bytes()
			idx := bytes.Index(raw, []byte(separatorFrame))
			if idx < 0 {
				break
			}
			frame := append([]byte(nil), raw[:idx]...)
			buf.Next(idx + len(separatorFrame))
			render(frame)
		}
		if err != nil {
			pterm.Warning.Printfln("event stream closed: %v", err)
			return
		}
	}
}

func render(frame []byte) {
	var ev wireEvent
	if err := json.Unmarshal(frame, &ev); err != nil {
		pterm.Warning.Printfln("bad frame: %v", err)
		return
	}
	switch ev.Evt.Type {
	case models.EventGameState:
		var st game.GameState
		if err := json.Unmarshal(ev.Evt.Event, &st); err != nil {
			return
		}
		renderState(st)
	case models.EventWhosNext:
		var next game.NextActions
		if err := json.Unmarshal(ev.Evt.Event, &next); err != nil {
			return
		}
		line := fmt.Sprintf("next: %s, may %v", next.Player, next.Actions)
		if next.CallAmount != nil {
			line += fmt.Sprintf(" (call %d)", *next.CallAmount)
		}
		pterm.Info.Println(line)
	case models.EventPlayerCards:
		var pc game.PrivateCards
		if err := json.Unmarshal(ev.Evt.Event, &pc); err != nil {
			return
		}
		line := fmt.Sprintf("%s holds %s", pc.Player, cardLine(pc.Cards))
		if pc.Rank != "" {
			line += fmt.Sprintf(" [%s]", pc.Rank)
		}
		pterm.Println(line)
	case models.EventMessage:
		var msg string
		if err := json.Unmarshal(ev.Evt.Event, &msg); err != nil {
			msg = string(ev.Evt.Event)
		}
		pterm.Info.Printfln("message: %s", msg)
	case models.EventTick:
		// heartbeat, nothing to show
	}
}

func renderState(st game.GameState) {
	rows := pterm.TableData{{"seat", "player", "money", "in round", "last action", ""}}
	for i, p := range st.Pigs {
		marker := ""
		if i == st.WaitingFor && !st.Finished {
			marker = "←"
		}
		status := string(p.LastAction)
		if p.Folded {
			status = "folded"
		}
		rows = append(rows, []string{
			strconv.Itoa(i), p.Name, strconv.Itoa(p.Money),
			strconv.Itoa(p.MoneyInRound), status, marker,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	pterm.Printfln("board: %s  pot: %d  round: %d", cardLine(st.CommunityCards), st.MoneyInPot, st.Round)
	if st.Finished {
		pterm.Success.Printfln("hand finished, winner(s): %s", strings.Join(st.Winners, ", "))
	}
}

func cardLine(cards []models.Card) string {
	if len(cards) == 0 {
		return "—"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		s := c.String()
		if c.Suit == models.Diamonds || c.Suit == models.Hearts {
			s = pterm.LightRed(s)
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}
