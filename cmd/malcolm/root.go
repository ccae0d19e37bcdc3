package main

import (
	"net"
	"os"
	"os/signal"

	"github.com/ftmalcolm/malcolm"
	"github.com/spf13/cobra"
)

// hostResolver resolves hostname arguments.
var hostResolver resolver = net.DefaultResolver

func newRootCommand() *cobra.Command {
	var configFile string
	v := newViper()

	cmd := &cobra.Command{
		Use:   "malcolm <source IP/hostname> <source MAC> <target IP/hostname> <target MAC>",
		Short: "Answer one ARP request with a forged ARP reply",
		Long: `malcolm listens on a network interface for an ARP request asking for the
source IP address.  When one arrives, it sends a single ARP reply to the
target telling it that the source IP address is at the source MAC address,
then exits.

IP addresses may be given in dotted-decimal form, as a decimal integer, or
as a hostname.`,
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			cfg, err := loadConfig(v, cmd.Flags(), configFile)
			if err != nil {
				return err
			}

			log, closeLog, err := newLogger(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeLog()

			target, err := parseTarget(ctx, hostResolver, args, cfg.Interface)
			if err != nil {
				if ctx.Err() != nil {
					log.Info("exiting program...")
					return nil
				}
				return err
			}

			o, err := malcolm.Run(ctx, target, malcolm.Config{
				PollInterval: cfg.PollInterval,
				Filter:       cfg.Filter,
				Log:          log,
			})
			if err != nil {
				return err
			}

			if o == malcolm.OutcomeCancelled {
				log.Info("received interrupt before a matching ARP request")
			}
			log.Info("exiting program...")

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "config file path")
	flags.StringP(keyInterface, "i", defaultInterface, "network interface to use for ARP traffic")
	flags.Duration(keyPollInterval, malcolm.DefaultPollInterval, "longest wait for a frame before checking for interrupt")
	flags.Bool(keyFilter, true, "attach a kernel socket filter for the awaited ARP request")
	flags.String(keyLogLevel, "info", "log level (trace, debug, info, warn, error)")
	flags.String(keyLogFile, "", "also write logs to this file, with rotation")

	return cmd
}
