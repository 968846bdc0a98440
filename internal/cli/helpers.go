package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// apiBase returns the base URL of the running daemon.
func apiBase() string {
	if env := os.Getenv("NUTRIBOT_ADDR"); env != "" {
		return env
	}
	return "http://127.0.0.1:8910"
}

var apiClient = &http.Client{Timeout: 2 * time.Minute}

// apiGet fetches a JSON endpoint into out.
func apiGet(path string, out any) error {
	resp, err := apiClient.Get(apiBase() + path)
	if err != nil {
		return fmt.Errorf("is the daemon running? (nutribot serve): %w", err)
	}
	defer resp.Body.Close()
	return decodeAPIResponse(resp, out)
}

// apiPost sends body as JSON and decodes the reply into out.
func apiPost(path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := apiClient.Post(apiBase()+path, "application/json", bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("is the daemon running? (nutribot serve): %w", err)
	}
	defer resp.Body.Close()
	return decodeAPIResponse(resp, out)
}

func decodeAPIResponse(resp *http.Response, out any) error {
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%s", apiErr.Error.Message)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
