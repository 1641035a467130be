package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	mdt "github.com/goliatone/go-mdt/components/mdt"
)

type sendCmd struct {
	Type   string `arg:"" enum:"open,close,playerData,updateData,notification" help:"Message type (open, close, playerData, updateData, notification)."`
	Data   string `arg:"" optional:"" help:"JSON payload; use @file to read it from a file or - for stdin."`
	Server string `default:"http://localhost:8080" help:"Base URL of a running MDT server."`
	Path   string `default:"/mdt/nui/message" help:"Route that accepts host messages."`
}

func (cmd *sendCmd) Run(ctx context.Context) error {
	data, err := cmd.payload()
	if err != nil {
		return err
	}
	body, err := json.Marshal(mdt.Envelope{Type: mdt.MessageType(cmd.Type), Data: data})
	if err != nil {
		return fmt.Errorf("mdt: encode envelope: %w", err)
	}
	url := strings.TrimRight(cmd.Server, "/") + "/" + strings.TrimLeft(cmd.Path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mdt: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("mdt: send %s: %w", cmd.Type, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mdt: send %s: %s: %s", cmd.Type, resp.Status, bytes.TrimSpace(out))
	}
	fmt.Fprintf(os.Stdout, "✓ %s accepted (%s)\n", cmd.Type, resp.Status)
	return nil
}

func (cmd *sendCmd) payload() (json.RawMessage, error) {
	raw := strings.TrimSpace(cmd.Data)
	switch {
	case raw == "":
		return nil, nil
	case raw == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("mdt: read stdin: %w", err)
		}
		return validJSON(data)
	case strings.HasPrefix(raw, "@"):
		data, err := os.ReadFile(strings.TrimPrefix(raw, "@"))
		if err != nil {
			return nil, fmt.Errorf("mdt: read payload file: %w", err)
		}
		return validJSON(data)
	default:
		return validJSON([]byte(raw))
	}
}

func validJSON(data []byte) (json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return nil, errors.New("mdt: payload is not valid JSON")
	}
	return json.RawMessage(data), nil
}
