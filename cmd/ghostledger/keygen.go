package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ghostledger/cmd/internal/passphrase"
	"ghostledger/crypto"
	"ghostledger/observability/logging"
)

func keygenCommand() *cobra.Command {
	var out, keystorePath string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a secp256k1 signing key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" && keystorePath == "" {
				return fmt.Errorf("one of --out or --keystore is required")
			}
			logger := commandLogger(cmd)
			key, err := crypto.GeneratePrivateKey()
			if err != nil {
				return err
			}
			if out != "" {
				if err := crypto.SaveHex(out, key); err != nil {
					return err
				}
				logger.Info("key written",
					logging.MaskField("path", out),
					logging.MaskField("address", key.Address().Hex()),
					logging.MaskField("key", key.Hex()))
			}
			if keystorePath != "" {
				pass, err := passphrase.NewSource(passphrase.EnvVar).Get()
				if err != nil {
					return err
				}
				if err := crypto.SaveToKeystore(keystorePath, key, pass); err != nil {
					return err
				}
				logger.Info("keystore written",
					logging.MaskField("path", keystorePath),
					logging.MaskField("address", key.Address().Hex()))
			}
			fmt.Fprintln(cmd.OutOrStdout(), key.Address().Hex())
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write the key as hex to this file")
	cmd.Flags().StringVar(&keystorePath, "keystore", "", "write the key to an encrypted v3 keystore file")
	return cmd
}

// loadKey reads a signing key from a hex file or a keystore.
func loadKey(keyPath, keystorePath string) (*crypto.PrivateKey, error) {
	switch {
	case keyPath != "" && keystorePath != "":
		return nil, fmt.Errorf("--key and --keystore are mutually exclusive")
	case keyPath != "":
		return crypto.LoadHex(keyPath)
	case keystorePath != "":
		// Reject unreadable files before prompting.
		if _, err := crypto.KeystoreAddress(keystorePath); err != nil {
			return nil, err
		}
		pass, err := passphrase.NewSource(passphrase.EnvVar).Get()
		if err != nil {
			return nil, err
		}
		return crypto.LoadFromKeystore(keystorePath, pass)
	default:
		return nil, fmt.Errorf("one of --key or --keystore is required")
	}
}
