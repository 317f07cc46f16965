package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessageFirstHTMLPart(t *testing.T) {
	raw := "To: a@example.com\r\n" +
		"Date: " + testDate + "\r\n" +
		"Content-Type: multipart/alternative; boundary=\"b\"\r\n\r\n" +
		"--b\r\nContent-Type: text/html\r\n\r\n<p>first</p>\r\n" +
		"--b\r\nContent-Type: text/html\r\n\r\n<p>second</p>\r\n" +
		"--b--\r\n"

	env, err := parseMessage([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "<p>first</p>", env.HTML)
	assert.Equal(t, "a@example.com", env.To)
	assert.Equal(t, "2024-03-05", env.Date)
}

func TestParseMessageQuotedPrintable(t *testing.T) {
	raw := "To: a@example.com\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n\r\n" +
		"<span style=3D\"x\">caf=C3=A9</span>"

	env, err := parseMessage([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, `<span style="x">café</span>`, env.HTML)
	assert.Equal(t, UnknownDate, env.Date)
}

func TestParseMessageLatin1Fallback(t *testing.T) {
	// No charset parameter, so the body bytes reach the fallback as-is.
	raw := append([]byte("Content-Type: text/html\r\n\r\n<p>caf"), 0xE9, '<', '/', 'p', '>')

	env, err := parseMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, "<p>café</p>", env.HTML)
}

func TestParseMessageDeclaredLatin1(t *testing.T) {
	raw := append([]byte("Content-Type: text/html; charset=iso-8859-1\r\n\r\n<p>na"), 0xEF, 'v', 'e', '<', '/', 'p', '>')

	env, err := parseMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, "<p>naïve</p>", env.HTML)
}

func TestParseMessageWithoutHTML(t *testing.T) {
	raw := "To: a@example.com\r\nContent-Type: text/plain\r\n\r\nhello"
	env, err := parseMessage([]byte(raw))
	assert.ErrorIs(t, err, errNoHTML)
	assert.Empty(t, env.HTML)
}

func TestDecodeText(t *testing.T) {
	assert.Equal(t, "plain", decodeText([]byte("plain")))
	assert.Equal(t, "ÿ", decodeText([]byte{0xFF}))
}

func TestRecipientFallsBackToRawHeader(t *testing.T) {
	env, err := parseMessage([]byte("To: undisclosed-recipients:;\r\nContent-Type: text/html\r\n\r\n<p/>"))
	require.NoError(t, err)
	assert.NotContains(t, env.To, "\r")
}
