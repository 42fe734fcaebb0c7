package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"whatsapp-console/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		WhatsAppToken: "test-token",
		PhoneNumberID: "12345",
		APIVersion:    "v21.0",
	}
}

func TestSendText_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []map[string]string{{"id": "wamid.sent1"}},
		})
	}))
	defer srv.Close()

	c := NewClient(testConfig())
	c.BaseURL = srv.URL

	id, err := c.SendText(context.Background(), "+1555000", "hello")
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if id != "wamid.sent1" {
		t.Fatalf("message id = %q", id)
	}
	if gotPath != "/v21.0/12345/messages" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("auth = %q", gotAuth)
	}
	if gotBody["to"] != "1555000" {
		t.Fatalf("destination not normalized: %v", gotBody["to"])
	}
	if gotBody["type"] != "text" {
		t.Fatalf("type = %v", gotBody["type"])
	}
}

func TestSendText_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad token"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(testConfig())
	c.BaseURL = srv.URL

	if _, err := c.SendText(context.Background(), "1555000", "hello"); err == nil {
		t.Fatal("expected error on 4xx response")
	}
}

func TestSendText_Unconfigured(t *testing.T) {
	c := NewClient(&config.Config{APIVersion: "v21.0"})

	id, err := c.SendText(context.Background(), "1555000", "hello")
	if err != nil {
		t.Fatalf("unconfigured send must not error, got %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}
}

func TestSendTemplate_DefaultsLanguage(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []map[string]string{{"id": "wamid.tpl1"}},
		})
	}))
	defer srv.Close()

	c := NewClient(testConfig())
	c.BaseURL = srv.URL

	id, err := c.SendTemplate(context.Background(), "1555000", "welcome", "", nil)
	if err != nil {
		t.Fatalf("SendTemplate: %v", err)
	}
	if id != "wamid.tpl1" {
		t.Fatalf("message id = %q", id)
	}
	tpl := gotBody["template"].(map[string]interface{})
	lang := tpl["language"].(map[string]interface{})
	if lang["code"] != "en" {
		t.Fatalf("language = %v", lang["code"])
	}
}

func TestMarkRead(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig())
	c.BaseURL = srv.URL

	if err := c.MarkRead(context.Background(), "wamid.inbound1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if gotBody["status"] != "read" || gotBody["message_id"] != "wamid.inbound1" {
		t.Fatalf("unexpected body: %v", gotBody)
	}
}
