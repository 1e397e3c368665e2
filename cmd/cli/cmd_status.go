package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/api"
	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
	"github.com/Davidlouiz/passerelle-vhf/pkg/poller"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the gateway status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolP("watch", "w", false, "refresh until interrupted")
	statusCmd.Flags().Duration("interval", cfg.StatusInterval, "refresh interval with --watch")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		ctx, cancel := commandContext(cmd.Context())
		defer cancel()
		return showStatus(ctx, client)
	}

	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		return fmt.Errorf("invalid --interval %s: must be positive", interval)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	task := poller.New("status", interval, func(ctx context.Context) error {
		err := showStatus(ctx, client)
		if api.IsUnauthorized(err) {
			stop()
		}
		if err != nil {
			printError(err)
		}
		return err
	}, poller.WithTimeout(cfg.Timeout), poller.WithLogger(logger))

	task.Run(ctx)
	return nil
}

func showStatus(ctx context.Context, client *api.Client) error {
	status, err := client.GetStatus(ctx)
	if err != nil {
		return err
	}

	printHeader("Gateway status  "+time.Now().Format("15:04:05"), 60)
	fmt.Printf("Reception:       %s\n", runnerString(status.Runner()))
	fmt.Printf("Emission:        %s\n", onOff(status.MasterEnabled))
	fmt.Printf("Channels:        %d / %d active\n", status.ActiveChannels, status.TotalChannels)
	fmt.Printf("Poll interval:   %s\n", pollInterval(status))
	if status.TxLockActive {
		printWarning("Transmitter busy")
	}
	if s := status.TxStats24h; s != nil {
		fmt.Printf("TX 24h:          %d total, %d sent, %d failed, %d aborted\n", s.Total, s.Sent, s.Failed, s.Aborted)
	}
	for _, ch := range status.ChannelsStats {
		if ch.LastError != "" {
			printWarning("%s: %s", ch.Name, ch.LastError)
		}
	}
	printFooter(60)
	return nil
}

func pollInterval(status *models.SystemStatus) string {
	if status.PollIntervalSeconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("%ds", status.PollIntervalSeconds)
}
