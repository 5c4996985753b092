package cli

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/roboricindustries/raycon-notify/internal/app"
	"github.com/roboricindustries/raycon-notify/internal/config"
	"github.com/roboricindustries/raycon-notify/pkg/hybrid"
	"github.com/roboricindustries/raycon-notify/pkg/schemas/notifications"
	"github.com/spf13/cobra"
)

type opened struct {
	Type       string   `json:"type"`
	Secret     bool     `json:"secret"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	CTA        string   `json:"cta"`
	Media      string   `json:"media"`
	Recipients []string `json:"recipients,omitempty"`
}

func openCommand() *cobra.Command {
	var key, payload, pointer string

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Print the content of a stored notification payload",
		Long: `Print the content of a notification payload read from a file, stdin ("-")
or, with --pointer, from the NOTIFY_STORAGE_* backend. Secret payloads need
the recipient's private key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readPayload(cmd, payload, pointer)
			if err != nil {
				return err
			}
			p, err := notifications.UnmarshalPayload(raw)
			if err != nil {
				return err
			}

			res := opened{
				Type:       p.Data.Type,
				Secret:     p.IsSecret(),
				Subject:    p.Data.ASub,
				Body:       p.Data.AMsg,
				CTA:        p.Data.ACTA,
				Media:      p.Data.AImg,
				Recipients: p.Recipients,
			}
			if p.IsSecret() {
				if key == "" {
					return errors.New("secret payload: --key is required")
				}
				priv, err := hybrid.ParsePrivateKey(key)
				if err != nil {
					return err
				}
				f, err := hybrid.Open(priv, hybrid.Envelope{
					Secret:  p.Data.Secret,
					Subject: p.Data.ASub,
					Body:    p.Data.AMsg,
					CTA:     p.Data.ACTA,
					Media:   p.Data.AImg,
				})
				if err != nil {
					return err
				}
				res.Subject, res.Body, res.CTA, res.Media = f.Subject, f.Body, f.CTA, f.Media
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&key, "key", "k", "", "recipient private key, hex")
	f.StringVarP(&payload, "payload", "p", "", `payload file, "-" for stdin`)
	f.StringVar(&pointer, "pointer", "", "content pointer to fetch from storage")
	cmd.MarkFlagsOneRequired("payload", "pointer")
	cmd.MarkFlagsMutuallyExclusive("payload", "pointer")
	return cmd
}

func readPayload(cmd *cobra.Command, path, pointer string) ([]byte, error) {
	switch {
	case pointer != "":
		st, err := config.LoadStorage()
		if err != nil {
			return nil, err
		}
		store, err := app.OpenStorage(cmd.Context(), st)
		if err != nil {
			return nil, err
		}
		return store.Get(cmd.Context(), pointer)
	case path == "-":
		return io.ReadAll(cmd.InOrStdin())
	default:
		return os.ReadFile(path)
	}
}
