package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-oracle/internal/app/persona"
)

func registry(t *testing.T) *persona.Registry {
	t.Helper()
	r, err := persona.NewDefaultRegistry()
	require.NoError(t, err)
	return r
}

func TestPrintPersonas(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printPersonas(&out, registry(t)))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "FEATURE")
	assert.Contains(t, lines[1], "madame_luna")
}

func TestRunChat_DrawAndChat(t *testing.T) {
	in := strings.NewReader("/draw\nWill it work out?\n/nope\n/quit\n")
	var out bytes.Buffer

	err := runChat(context.Background(), in, &out, registry(t), chatOptions{personaID: "madame_luna", userID: "me"})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Shall I draw three cards for you?")
	assert.Contains(t, got, "Past: ")
	assert.Contains(t, got, "[Draw Again]")
	assert.Contains(t, got, `You said "Will it work out?"`)
	assert.Contains(t, got, "unknown command /nope")
}

func TestRunChat_CompatibilityFlow(t *testing.T) {
	in := strings.NewReader("/match\nSam\nnot a date\n1991-02-03\n")
	var out bytes.Buffer

	err := runChat(context.Background(), in, &out, registry(t), chatOptions{
		personaID: "shadow",
		userID:    "me",
		birthDate: "1990-06-15",
	})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Tell me their name.")
	assert.Contains(t, got, "I couldn't read that date.")
	assert.Contains(t, got, "You & Sam: ")
}

func TestRunChat_InvalidBirthDate(t *testing.T) {
	err := runChat(context.Background(), strings.NewReader(""), &bytes.Buffer{}, registry(t), chatOptions{
		userID:    "me",
		birthDate: "yesterday",
	})
	assert.Error(t, err)
}
