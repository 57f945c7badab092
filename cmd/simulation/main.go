package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api/assistant/v1"

// Simplified DTOs for the script
type chatRequest struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionId string `json:"session_id"`
	Reply     string `json:"reply"`
	Products  []struct {
		Id    string  `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"products"`
	CurrentState    string `json:"current_state"`
	EndConversation bool   `json:"end_conversation"`
}

func main() {
	header := color.New(color.FgCyan, color.Bold)
	header.Println("=== Jewellery Assistant Simulation Client ===")

	script := []string{
		"hi_ai_assistant",
		"I'm looking for an anniversary gift for my wife",
		"A necklace, something elegant, maybe with pearls",
		"My budget is around $1000",
		"show me necklaces",
		"goodbye",
	}

	sessionID := ""
	userColor := color.New(color.FgGreen)
	botColor := color.New(color.FgYellow)
	metaColor := color.New(color.FgHiBlack)

	for _, message := range script {
		userColor.Printf("\nYou: %s\n", message)

		res, err := sendChat(sessionID, message)
		if err != nil {
			log.Fatalf("Chat request failed: %v", err)
		}
		sessionID = res.SessionId

		botColor.Printf("Assistant: %s\n", res.Reply)
		for _, p := range res.Products {
			metaColor.Printf("  - %s ($%.2f) [%s]\n", p.Name, p.Price, p.Id)
		}
		metaColor.Printf("  state=%s session=%s\n", res.CurrentState, res.SessionId)

		if res.EndConversation {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}

	header.Println("\n=== Simulation finished ===")
}

func sendChat(sessionID, message string) (*chatResponse, error) {
	payload, err := json.Marshal(chatRequest{SessionId: sessionID, Message: message})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var res chatResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
