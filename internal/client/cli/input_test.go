package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	text, err := GetSimpleText(newReader("  hello world  \n"), "Say something", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.Contains(t, out.String(), "Say something")
}

func TestGetSimpleText_EOFWithPartialLine(t *testing.T) {
	var out bytes.Buffer
	text, err := GetSimpleText(newReader("partial"), "Prompt", &out)
	require.NoError(t, err)
	assert.Equal(t, "partial", text)
}

func TestGetInt(t *testing.T) {
	var out bytes.Buffer

	n, err := GetInt(newReader("3\n"), "Count", 1, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = GetInt(newReader("\n"), "Count", 5, &out)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = GetInt(newReader("abc\n"), "Count", 1, &out)
	assert.Error(t, err)
}

func TestGetChoice(t *testing.T) {
	var out bytes.Buffer
	allowed := []string{"low", "standard", "high"}

	v, err := GetChoice(newReader("high\n"), "Quality", allowed, "standard", &out)
	require.NoError(t, err)
	assert.Equal(t, "high", v)

	v, err = GetChoice(newReader("\n"), "Quality", allowed, "standard", &out)
	require.NoError(t, err)
	assert.Equal(t, "standard", v)

	_, err = GetChoice(newReader("ultra\n"), "Quality", allowed, "standard", &out)
	assert.Error(t, err)
}

func TestGetToken(t *testing.T) {
	orig := readPassword
	defer func() { readPassword = orig }()
	readPassword = func(fd int) ([]byte, error) {
		return []byte("  secret-token \n"), nil
	}

	var out bytes.Buffer
	token, err := GetToken(&out)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)
	assert.Contains(t, out.String(), "Paste token")
}
