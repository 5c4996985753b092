package cli

import (
	"fmt"

	"github.com/roboricindustries/raycon-notify/internal/app"
	"github.com/roboricindustries/raycon-notify/internal/config"
	"github.com/roboricindustries/raycon-notify/internal/logging"
	"github.com/roboricindustries/raycon-notify/pkg/notify"
	"github.com/roboricindustries/raycon-notify/pkg/schemas/notifications"
	"github.com/spf13/cobra"
)

func sendCommand() *cobra.Command {
	var (
		req                 notifications.DispatchRequest
		subject, cta, media string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Dispatch one notification from the configured channel",
		Long: `Dispatch one notification. Chain, storage and broker settings come from
NOTIFY_* environment variables.

Examples:
  # Broadcast to every subscriber
  notifyctl send --mode 1 --subject "Release" --body "v2 is out"

  # Secret notification, sealed for the recipient's registered key
  notifyctl send --mode 2 --recipient 0xabc... --body "your code is 1234"

  # Subset of subscribers
  notifyctl send --mode 4 --recipients 0xabc...,0xdef... --body "hi both"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := notify.ParseModeCode(req.Mode); err != nil {
				return err
			}
			if cmd.Flags().Changed("subject") {
				req.Subject = &subject
			}
			if cmd.Flags().Changed("cta") {
				req.CTA = &cta
			}
			if cmd.Flags().Changed("media") {
				req.Media = &media
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.NewWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			a, err := app.Build(cmd.Context(), cfg, logger, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			s := notify.SessionFromRequest(a.Chain.Address(), req)
			res, err := a.Dispatcher.Dispatch(cmd.Context(), s)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "identity: %s\n", res.Identity)
			fmt.Fprintf(out, "tx:       %s\n", res.TxHash)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&req.Mode, "mode", "m", "", "delivery mode: 1 broadcast, 2 secret, 3 targeted, 4 subset")
	f.StringVarP(&req.Body, "body", "b", "", "message body")
	f.StringVarP(&subject, "subject", "s", "", "subject; omit to disable")
	f.StringVar(&cta, "cta", "", "call to action link; omit to disable")
	f.StringVar(&media, "media", "", "media URL; omit to disable")
	f.StringVarP(&req.Recipient, "recipient", "r", "", "recipient of a secret or targeted notification")
	f.StringSliceVar(&req.Recipients, "recipients", nil, "comma separated recipients of a subset notification")
	_ = cmd.MarkFlagRequired("mode")
	return cmd
}
