// led-test: Exercise the emotion LED service from a shell
// Runs through the emotion palette against a running led-server so the
// ring can be checked by eye during bring-up.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/auralab/go-concierge/internal/httpc"
)

var (
	baseURL = flag.String("url", "http://localhost:5000", "led-server base URL")
	pause   = flag.Duration("pause", 2*time.Second, "pause between scenarios")
)

// scenario pairs an emotion with an example line that would trigger it.
type scenario struct {
	emotion string
	text    string
}

var scenarios = []scenario{
	{"welcoming", "Hello! Welcome to Central Plaza!"},
	{"excited", "We have an incredible sale today, up to 70% off!"},
	{"surprised", "Did you know there's a rooftop garden on floor 12?"},
	{"helpful", "The coffee shop is on floor 2, right next to the fountain."},
	{"thinking", "Let me check the opening hours for you."},
	{"happy", "Good news, the restaurant has tables available!"},
	{"sad", "I'm sorry, the cinema is temporarily closed."},
	{"neutral", "The mall is open from 10am to 10pm."},
}

func main() {
	flag.Parse()

	fmt.Println()
	fmt.Println("💡 LED service test")
	fmt.Println("   Target: " + *baseURL)
	fmt.Println()

	if !checkStatus() {
		fmt.Println("❌ No LED ring detected; connect the ReSpeaker and retry")
		os.Exit(1)
	}

	failed := 0
	for i, sc := range scenarios {
		fmt.Printf("[%d/%d] %-10s %s\n", i+1, len(scenarios), sc.emotion, sc.text)
		if err := playEmotion(sc); err != nil {
			fmt.Printf("        FAILED: %v\n", err)
			failed++
		}
		time.Sleep(*pause)
	}

	// Leave the ring in its idle animation.
	if resp, err := httpc.Post(*baseURL+"/doa", "application/json", nil); err == nil {
		resp.Body.Close()
	}

	fmt.Println()
	if failed > 0 {
		fmt.Printf("❌ %d of %d scenarios failed\n", failed, len(scenarios))
		os.Exit(1)
	}
	fmt.Printf("✅ All %d scenarios sent\n", len(scenarios))
}

// checkStatus verifies the service is up and reports device presence.
// Exits when the service itself is unreachable.
func checkStatus() bool {
	resp, err := httpc.Get(*baseURL + "/status")
	if err != nil {
		fmt.Printf("❌ Cannot reach LED service: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var status struct {
		Status      string `json:"status"`
		DeviceFound bool   `json:"device_found"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Printf("❌ Bad status response: %v\n", err)
		os.Exit(1)
	}
	return status.DeviceFound
}

func playEmotion(sc scenario) error {
	body, err := json.Marshal(map[string]interface{}{
		"emotion":  sc.emotion,
		"duration": 1.5,
		"text":     sc.text,
	})
	if err != nil {
		return err
	}

	resp, err := httpc.Post(*baseURL+"/emotion", "application/json", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
