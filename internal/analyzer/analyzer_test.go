package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/partaudit/pkg/anthropic"
)

// mockClient returns canned responses keyed by call count.
type mockClient struct {
	mu        sync.Mutex
	calls     int
	responses []string
	err       error
	lastReq   anthropic.MessageRequest
}

func (m *mockClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	text := m.responses[m.calls%len(m.responses)]
	m.calls++
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}, nil
}

const sampleAnalysis = `{
	"complexity_level": "Moderate",
	"type": "Bracket",
	"part_name": "MOUNTING BRACKET",
	"material": "Steel",
	"part_notes": "",
	"laser_cut": 1,
	"weld": 0,
	"cnc_machining_turning": 1
}`

func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))
	return path
}

func TestAnalyzePart(t *testing.T) {
	client := &mockClient{responses: []string{sampleAnalysis}}
	a := New(client, Options{RequestsPerMin: 6000})

	path := writePDF(t, t.TempDir(), "bracket_drw.pdf")

	rec, err := a.AnalyzePart(context.Background(), path)
	require.NoError(t, err)

	v, ok := rec.Get("source_file")
	require.True(t, ok)
	assert.Equal(t, "bracket_drw.pdf", v.String())

	v, ok = rec.Get("laser_cut")
	require.True(t, ok)
	assert.Equal(t, 1, v.Binary())

	v, ok = rec.Get("material")
	require.True(t, ok)
	assert.Equal(t, "Steel", v.String())

	// The PDF travels as a document part ahead of the prompt text.
	require.Len(t, client.lastReq.Messages, 1)
	parts := client.lastReq.Messages[0].Content
	require.Len(t, parts, 2)
	assert.Equal(t, "document", parts[0].Type)
	assert.Equal(t, "text", parts[1].Type)
}

func TestAnalyzePart_MissingFile(t *testing.T) {
	a := New(&mockClient{responses: []string{sampleAnalysis}}, Options{RequestsPerMin: 6000})

	_, err := a.AnalyzePart(context.Background(), "/nonexistent/file.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read")
}

func TestAnalyzePart_BadJSON(t *testing.T) {
	client := &mockClient{responses: []string{"I cannot analyze this drawing."}}
	a := New(client, Options{RequestsPerMin: 6000})

	path := writePDF(t, t.TempDir(), "part.pdf")

	_, err := a.AnalyzePart(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse response")
}

func TestAnalyzeDir(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "b_part.pdf")
	writePDF(t, dir, "a_part.pdf")
	writePDF(t, dir, "notes.txt") // ignored

	client := &mockClient{responses: []string{sampleAnalysis}}
	a := New(client, Options{Concurrency: 2, RequestsPerMin: 6000})

	records, err := a.AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// File name order regardless of completion order.
	v, _ := records[0].Get("source_file")
	assert.Equal(t, "a_part.pdf", v.String())
	v, _ = records[1].Get("source_file")
	assert.Equal(t, "b_part.pdf", v.String())
}

func TestAnalyzeDir_FailedDrawingKeepsGoing(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "only.pdf")

	client := &mockClient{err: eris.New("api unavailable")}
	a := New(client, Options{RequestsPerMin: 6000})

	records, err := a.AnalyzeDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, records, 1)

	v, ok := records[0].Get("error")
	require.True(t, ok)
	assert.Contains(t, v.String(), "api unavailable")

	v, _ = records[0].Get("source_file")
	assert.Equal(t, "only.pdf", v.String())
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "Here you go:\n```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  {\"a\": 1}\n", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}
