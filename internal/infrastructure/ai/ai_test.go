package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON(`Claro: {"a":1} espero que sirva`))
	assert.Equal(t, "", extractJSON("sin json"))
}

func TestParseSuggestion(t *testing.T) {
	s, err := parseSuggestion(`{"category":" Poesía ","confidence":1.7,"reasoning":"versos"}`)
	require.NoError(t, err)
	assert.Equal(t, "Poesía", s.Category)
	assert.Equal(t, 1.0, s.Confidence)

	_, err = parseSuggestion(`{"confidence":0.5}`)
	assert.Error(t, err)
	_, err = parseSuggestion("nada")
	assert.Error(t, err)
}

func TestUserPrompt(t *testing.T) {
	assert.Equal(t, "Título: Dune", userPrompt("Dune", "", ""))
	assert.Equal(t, "Título: Dune\nAutor: Herbert\nDescripción: Arena", userPrompt("Dune", "Herbert", "Arena"))
	assert.Contains(t, systemPrompt([]string{"Poesía", "Teatro"}), "- Poesía\n- Teatro")
}

func TestAnthropicSuggestCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "clave", r.Header.Get("x-api-key"))
		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.System, "Ciencia Ficción")
		assert.Equal(t, "Título: Dune\nAutor: Frank Herbert", req.Messages[0].Content)
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"category\":\"Ciencia Ficción\",\"confidence\":0.92,\"reasoning\":\"Space opera\"}"}]}`))
	}))
	defer srv.Close()

	s := NewAnthropicService("clave", "modelo")
	s.baseURL = srv.URL
	got, err := s.SuggestCategory(context.Background(), "Dune", "Frank Herbert", "", []string{"Ciencia Ficción", "Otros"})
	require.NoError(t, err)
	assert.Equal(t, "Ciencia Ficción", got.Category)
	assert.Equal(t, 0.92, got.Confidence)
}

func TestAnthropicErrores(t *testing.T) {
	_, err := NewAnthropicService("", "m").SuggestCategory(context.Background(), "x", "", "", nil)
	assert.ErrorContains(t, err, "ANTHROPIC_API_KEY")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"demasiadas peticiones"}}`))
	}))
	defer srv.Close()
	s := NewAnthropicService("clave", "m")
	s.baseURL = srv.URL
	_, err = s.SuggestCategory(context.Background(), "x", "", "", nil)
	assert.ErrorContains(t, err, "rate_limit_error")
}

func TestGeminiSuggestCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/modelo?key=clave", r.URL.Path+"?"+r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"category\":\"Historia\",\"confidence\":0.8}"}]}}]}`))
	}))
	defer srv.Close()

	s := NewGeminiService("clave", "modelo")
	s.urlFormat = srv.URL + "/%s?key=%s"
	got, err := s.SuggestCategory(context.Background(), "SPQR", "Mary Beard", "", []string{"Historia"})
	require.NoError(t, err)
	assert.Equal(t, "Historia", got.Category)
}

func TestNewLLMService(t *testing.T) {
	assert.IsType(t, &GeminiService{}, NewLLMService("gemini", "", "", "k", "m"))
	assert.IsType(t, &AnthropicService{}, NewLLMService("", "k", "m", "", ""))
}
