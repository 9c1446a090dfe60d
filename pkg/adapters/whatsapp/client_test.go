package whatsapp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avasarlabs/santosh/pkg/adapters/whatsapp"
	"github.com/avasarlabs/santosh/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureServer(t *testing.T, status int) (*httptest.Server, *map[string]any, *http.Header) {
	t.Helper()
	var captured map[string]any
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.X"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured, &headers
}

func TestSend_Text(t *testing.T) {
	srv, captured, headers := captureServer(t, http.StatusOK)
	client := whatsapp.NewClient("tok", "12345", whatsapp.WithBaseURL(srv.URL))

	err := client.Send(context.Background(), "919900112233", domain.AdHocReply{Text: "I can help with that"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", headers.Get("Authorization"))
	assert.Equal(t, "whatsapp", (*captured)["messaging_product"])
	assert.Equal(t, "919900112233", (*captured)["to"])
	assert.Equal(t, "text", (*captured)["type"])
	text := (*captured)["text"].(map[string]any)
	assert.Equal(t, "I can help with that", text["body"])
}

func TestSend_InteractiveButtons(t *testing.T) {
	srv, captured, _ := captureServer(t, http.StatusOK)
	client := whatsapp.NewClient("tok", "12345", whatsapp.WithBaseURL(srv.URL))

	node := &domain.FlowNode{
		NodeID: "n2",
		Text:   "Pick a topic",
		CTAs: []domain.CallToAction{
			{Text: "Jobs", ID: "btn_jobs"},
			{Text: "Schemes", ID: "btn_schemes"},
		},
	}
	require.NoError(t, client.Send(context.Background(), "u1", node))

	assert.Equal(t, "interactive", (*captured)["type"])
	interactive := (*captured)["interactive"].(map[string]any)
	assert.Equal(t, "button", interactive["type"])
	buttons := interactive["action"].(map[string]any)["buttons"].([]any)
	require.Len(t, buttons, 2)
	first := buttons[0].(map[string]any)["reply"].(map[string]any)
	assert.Equal(t, "btn_jobs", first["id"])
	assert.Equal(t, "Jobs", first["title"])
}

func TestSend_TruncatesToThreeButtons(t *testing.T) {
	srv, captured, _ := captureServer(t, http.StatusOK)
	client := whatsapp.NewClient("tok", "12345", whatsapp.WithBaseURL(srv.URL))

	node := &domain.FlowNode{
		Text: "Too many options",
		CTAs: []domain.CallToAction{
			{Text: "A", ID: "a"}, {Text: "B", ID: "b"},
			{Text: "C", ID: "c"}, {Text: "D", ID: "d"}, {Text: "E", ID: "e"},
		},
	}
	require.NoError(t, client.Send(context.Background(), "u1", node))

	interactive := (*captured)["interactive"].(map[string]any)
	buttons := interactive["action"].(map[string]any)["buttons"].([]any)
	assert.Len(t, buttons, 3)
}

func TestSend_Media(t *testing.T) {
	srv, captured, _ := captureServer(t, http.StatusOK)
	client := whatsapp.NewClient("tok", "12345", whatsapp.WithBaseURL(srv.URL))

	node := &domain.FlowNode{Text: "See attached", MediaURL: "https://example.org/x.png"}
	require.NoError(t, client.Send(context.Background(), "u1", node))

	assert.Equal(t, "image", (*captured)["type"])
	image := (*captured)["image"].(map[string]any)
	assert.Equal(t, "https://example.org/x.png", image["link"])
	assert.Equal(t, "See attached", image["caption"])
}

func TestSend_RejectedStatus(t *testing.T) {
	srv, _, _ := captureServer(t, http.StatusUnauthorized)
	client := whatsapp.NewClient("bad", "12345", whatsapp.WithBaseURL(srv.URL))

	err := client.Send(context.Background(), "u1", domain.AdHocReply{Text: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestEvent_Messages(t *testing.T) {
	raw := `{
	  "object": "whatsapp_business_account",
	  "entry": [{
	    "id": "1",
	    "changes": [{
	      "field": "messages",
	      "value": {
	        "messaging_product": "whatsapp",
	        "messages": [
	          {"from": "919900112233", "id": "wamid.1", "type": "text", "text": {"body": "hello"}},
	          {"from": "919900112233", "id": "wamid.2", "type": "interactive",
	           "interactive": {"type": "button_reply", "button_reply": {"id": "btn_42", "title": "Jobs"}}},
	          {"from": "919900112233", "id": "wamid.3", "type": "button",
	           "button": {"text": "Jobs", "payload": "btn_7"}}
	        ]
	      }
	    }]
	  }]
	}`

	var event whatsapp.Event
	require.NoError(t, json.Unmarshal([]byte(raw), &event))

	msgs := event.Messages()
	require.Len(t, msgs, 3)

	assert.Equal(t, "hello", msgs[0].Body())
	assert.Empty(t, msgs[0].CallbackID())

	assert.Empty(t, msgs[1].Body())
	assert.Equal(t, "btn_42", msgs[1].CallbackID())

	assert.Equal(t, "btn_7", msgs[2].CallbackID())
}
