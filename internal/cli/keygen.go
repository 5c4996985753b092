package cli

import (
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/roboricindustries/raycon-notify/pkg/hybrid"
	"github.com/spf13/cobra"
)

func keygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a recipient key pair for secret notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			priv, err := hybrid.GenerateKey()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "address: %s\n", ethcrypto.PubkeyToAddress(priv.PublicKey).Hex())
			fmt.Fprintf(out, "public:  %s\n", hybrid.PublicKeyHex(priv))
			fmt.Fprintf(out, "private: %s\n", hybrid.PrivateKeyHex(priv))
			return nil
		},
	}
}
