package pushrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/delak101/librarysystem/util/httpx"
)

const fcmSendURL = "https://fcm.googleapis.com/fcm/send"

type httpRepo struct {
	serverKey string
	client    *http.Client
}

func NewHTTP(serverKey string) Repo {
	return &httpRepo{serverKey: serverKey, client: httpx.Client()}
}

func (r *httpRepo) Send(ctx context.Context, msg Message) error {
	if r.serverKey == "" {
		return errors.New("fcm: server key not configured")
	}
	if len(msg.Tokens) == 0 {
		return errors.New("fcm: no registration tokens")
	}

	body := map[string]any{
		"registration_ids": msg.Tokens,
		"notification": map[string]string{
			"title": msg.Title,
			"body":  msg.Body,
		},
		"data": msg.Data,
	}
	b, _ := json.Marshal(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fcmSendURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "key="+r.serverKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("fcm send failed: %s", resp.Status)
	}

	var out struct {
		Failure int `json:"failure"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if out.Failure == len(msg.Tokens) {
		return errors.New("fcm: delivery failed for all tokens")
	}
	return nil
}
