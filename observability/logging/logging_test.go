package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithOptions(Options{Service: "ghostledger", Env: "test", Level: slog.LevelDebug, Output: &buf})
	logger.Debug("vault created", slog.String("contract", "0x01"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "vault created", line["message"])
	require.Equal(t, "DEBUG", line["severity"])
	require.Equal(t, "ghostledger", line["service"])
	require.Equal(t, "test", line["env"])
	require.Contains(t, line, "timestamp")
	require.NotContains(t, line, "msg")
}

func TestSetupFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithOptions(Options{Service: "ghostledger", Level: slog.LevelWarn, Output: &buf})
	logger.Info("dropped")
	require.Zero(t, buf.Len())
	logger.Warn("kept")
	require.Contains(t, buf.String(), "kept")
}

func TestMasking(t *testing.T) {
	require.Equal(t, RedactedValue, MaskField("privateKey", "abcd").Value.String())
	require.Equal(t, "0xabc", MaskField("address", "0xabc").Value.String())
	require.Equal(t, "", MaskField("privateKey", "").Value.String())
	require.Equal(t, RedactedValue, MaskField("key", "0x4c0883a69102937d6231471b5dbb6204fe512961708279f3c1a7b2f3d8f4b7c1").Value.String())
	require.Equal(t, "0xabc", MaskField(" Signer ", "0xabc").Value.String())
	require.True(t, IsAllowlisted("Contract"))
	require.False(t, IsAllowlisted("passphrase"))
}
