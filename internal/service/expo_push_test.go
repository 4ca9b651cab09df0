package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsExpoPushToken(t *testing.T) {
	valid := []string{
		"ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]",
		"ExpoPushToken[yyyy]",
	}
	for _, token := range valid {
		if !IsExpoPushToken(token) {
			t.Fatalf("expected %q to be valid", token)
		}
	}

	invalid := []string{
		"",
		"fcm-registration-token",
		"ExponentPushToken[missing-bracket",
		"PushToken[zzz]",
	}
	for _, token := range invalid {
		if IsExpoPushToken(token) {
			t.Fatalf("expected %q to be invalid", token)
		}
	}
}

func expoTestServer(t *testing.T, ticket ExpoPushTicket) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg ExpoPushMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			t.Errorf("bad push payload: %v", err)
		}
		if len(msg.To) != 1 {
			t.Errorf("expected exactly one recipient, got %v", msg.To)
		}
		json.NewEncoder(w).Encode(ExpoPushResponse{Data: []ExpoPushTicket{ticket}})
	}))
}

func TestExpoPushClient_SendToToken_Success(t *testing.T) {
	srv := expoTestServer(t, ExpoPushTicket{Status: "ok", ID: "ticket-1"})
	defer srv.Close()

	client := NewExpoPushClient(srv.URL)
	ticket, err := client.SendToToken(context.Background(), "ExponentPushToken[abc]", "Title", "Body", nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if ticket == nil || ticket.ID != "ticket-1" {
		t.Fatalf("unexpected ticket: %+v", ticket)
	}
}

func TestExpoPushClient_SendToToken_ErrorTicket(t *testing.T) {
	rejected := ExpoPushTicket{Status: "error", Message: "not registered"}
	rejected.Details.Error = "DeviceNotRegistered"
	srv := expoTestServer(t, rejected)
	defer srv.Close()

	client := NewExpoPushClient(srv.URL)
	ticket, err := client.SendToToken(context.Background(), "ExponentPushToken[abc]", "Title", "Body", nil)
	if err == nil {
		t.Fatal("expected an error for a rejected ticket")
	}
	// The ticket is still returned so callers can log the rejection detail.
	if ticket == nil || ticket.Details.Error != "DeviceNotRegistered" {
		t.Fatalf("unexpected ticket: %+v", ticket)
	}
}

func TestExpoPushClient_SendToToken_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewExpoPushClient(srv.URL)
	if _, err := client.SendToToken(context.Background(), "ExponentPushToken[abc]", "Title", "Body", nil); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
